// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package lis2dh12

import "github.com/relabs-tech/mems_bsp/internal/mems"

const (
	regWhoAmI   = 0x0F
	regCtrl1    = 0x20
	regCtrl3    = 0x22
	regCtrl4    = 0x23
	regCtrl5    = 0x24
	regStatus   = 0x27
	regOutXL    = 0x28
	regFIFOCtrl = 0x2E

	// CTRL_REG1
	odrMask = 0xF0
	lpEn    = 0x08

	// CTRL_REG4
	bdu    = 0x80
	fsMask = 0x30
	hr     = 0x08
	sim    = 0x01

	// STATUS_REG
	zyxor = 0x80
	zyxda = 0x08

	fifoModeMask = 0xC0
	fifoEn       = 0x40
)

// Registers returns the register map shown by debugging tools.
func (d *Dev) Registers() []mems.RegisterInfo { return registerMap }

var registerMap = []mems.RegisterInfo{
	{Address: 0x07, Name: "STATUS_REG_AUX", Description: "Temperature status", Access: "R"},
	{Address: 0x0C, Name: "OUT_TEMP_L", Description: "Temperature low byte", Access: "R"},
	{Address: 0x0D, Name: "OUT_TEMP_H", Description: "Temperature high byte", Access: "R"},
	{Address: regWhoAmI, Name: "WHO_AM_I", Description: "Device identification", Access: "R", Default: "0x33"},
	{Address: 0x1E, Name: "CTRL_REG0", Description: "SDO/SA0 pull-up", Access: "RW", Default: "0x10"},
	{Address: 0x1F, Name: "TEMP_CFG_REG", Description: "Temperature sensor enable", Access: "RW", Default: "0x00"},
	{Address: regCtrl1, Name: "CTRL_REG1", Description: "Data rate and axes enable", Access: "RW", Default: "0x07",
		BitFields: []mems.BitField{
			{Bits: "7:4", Name: "ODR", Description: "Output data rate", Values: "0=Power-down, 1=1Hz, 2=10Hz, 3=25Hz, 4=50Hz, 5=100Hz, 6=200Hz, 7=400Hz, 8=1620Hz LP, 9=1344Hz HR/NM or 5376Hz LP"},
			{Bits: "3", Name: "LPen", Description: "Low-power mode enable", Values: "0=HR/NM, 1=LP"},
			{Bits: "2", Name: "Zen", Description: "Z axis enable"},
			{Bits: "1", Name: "Yen", Description: "Y axis enable"},
			{Bits: "0", Name: "Xen", Description: "X axis enable"},
		}},
	{Address: 0x21, Name: "CTRL_REG2", Description: "High-pass filter", Access: "RW", Default: "0x00"},
	{Address: regCtrl3, Name: "CTRL_REG3", Description: "INT1 routing", Access: "RW", Default: "0x00"},
	{Address: regCtrl4, Name: "CTRL_REG4", Description: "Full scale, resolution and interface", Access: "RW", Default: "0x00",
		BitFields: []mems.BitField{
			{Bits: "7", Name: "BDU", Description: "Block data update", Values: "0=Continuous, 1=Wait for read"},
			{Bits: "6", Name: "BLE", Description: "Big/little endian", Values: "0=LSB at lower address"},
			{Bits: "5:4", Name: "FS", Description: "Full scale", Values: "0=±2g, 1=±4g, 2=±8g, 3=±16g"},
			{Bits: "3", Name: "HR", Description: "High-resolution mode", Values: "0=Disabled, 1=Enabled"},
			{Bits: "2:1", Name: "ST", Description: "Self-test", Values: "0=Normal"},
			{Bits: "0", Name: "SIM", Description: "SPI interface mode", Values: "0=4-wire, 1=3-wire"},
		}},
	{Address: regCtrl5, Name: "CTRL_REG5", Description: "FIFO enable and latching", Access: "RW", Default: "0x00",
		BitFields: []mems.BitField{
			{Bits: "7", Name: "BOOT", Description: "Reboot memory content"},
			{Bits: "6", Name: "FIFO_EN", Description: "FIFO enable", Values: "0=Disabled, 1=Enabled"},
		}},
	{Address: 0x25, Name: "CTRL_REG6", Description: "INT2 routing", Access: "RW", Default: "0x00"},
	{Address: regStatus, Name: "STATUS_REG", Description: "Data status", Access: "R",
		BitFields: []mems.BitField{
			{Bits: "7", Name: "ZYXOR", Description: "X/Y/Z overrun"},
			{Bits: "3", Name: "ZYXDA", Description: "X/Y/Z new data available"},
		}},
	{Address: regOutXL, Name: "OUT_X_L", Description: "X axis low byte", Access: "R"},
	{Address: 0x29, Name: "OUT_X_H", Description: "X axis high byte", Access: "R"},
	{Address: 0x2A, Name: "OUT_Y_L", Description: "Y axis low byte", Access: "R"},
	{Address: 0x2B, Name: "OUT_Y_H", Description: "Y axis high byte", Access: "R"},
	{Address: 0x2C, Name: "OUT_Z_L", Description: "Z axis low byte", Access: "R"},
	{Address: 0x2D, Name: "OUT_Z_H", Description: "Z axis high byte", Access: "R"},
	{Address: regFIFOCtrl, Name: "FIFO_CTRL_REG", Description: "FIFO mode", Access: "RW", Default: "0x00",
		BitFields: []mems.BitField{
			{Bits: "7:6", Name: "FM", Description: "FIFO mode", Values: "0=Bypass, 1=FIFO, 2=Stream, 3=Stream-to-FIFO"},
		}},
	{Address: 0x2F, Name: "FIFO_SRC_REG", Description: "FIFO status", Access: "R"},
	{Address: 0x30, Name: "INT1_CFG", Description: "Interrupt 1 configuration", Access: "RW", Default: "0x00"},
	{Address: 0x32, Name: "INT1_THS", Description: "Interrupt 1 threshold", Access: "RW", Default: "0x00"},
	{Address: 0x33, Name: "INT1_DURATION", Description: "Interrupt 1 duration", Access: "RW", Default: "0x00"},
}
