// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package asm330lhh

import "github.com/relabs-tech/mems_bsp/internal/mems"

const (
	regFIFOCtrl4 = 0x0A
	regWhoAmI    = 0x0F
	regCtrl1XL   = 0x10
	regCtrl2G    = 0x11
	regCtrl3C    = 0x12
	regStatus    = 0x1E
	regOutXLG    = 0x22
	regOutXLA    = 0x28

	odrMask     = 0xF0
	fsXLMask    = 0x0C
	fsGMask     = 0x0F
	fifoModeMsk = 0x07

	// CTRL3_C
	bdu   = 0x40
	sim   = 0x08
	ifInc = 0x04

	// STATUS_REG
	xlda = 0x01
	gda  = 0x02
)

// Registers returns the register map shown by debugging tools.
func (d *Dev) Registers() []mems.RegisterInfo { return registerMap }

var registerMap = []mems.RegisterInfo{
	{Address: 0x07, Name: "FIFO_CTRL1", Description: "FIFO watermark low", Access: "RW", Default: "0x00"},
	{Address: 0x08, Name: "FIFO_CTRL2", Description: "FIFO watermark high", Access: "RW", Default: "0x00"},
	{Address: 0x09, Name: "FIFO_CTRL3", Description: "FIFO batch data rates", Access: "RW", Default: "0x00"},
	{Address: regFIFOCtrl4, Name: "FIFO_CTRL4", Description: "FIFO mode", Access: "RW", Default: "0x00",
		BitFields: []mems.BitField{
			{Bits: "2:0", Name: "FIFO_MODE", Description: "FIFO mode", Values: "0=Bypass, 1=FIFO, 3=Continuous-to-FIFO, 4=Bypass-to-continuous, 6=Continuous"},
		}},
	{Address: 0x0D, Name: "INT1_CTRL", Description: "INT1 routing", Access: "RW", Default: "0x00"},
	{Address: 0x0E, Name: "INT2_CTRL", Description: "INT2 routing", Access: "RW", Default: "0x00"},
	{Address: regWhoAmI, Name: "WHO_AM_I", Description: "Device identification", Access: "R", Default: "0x6B"},
	{Address: regCtrl1XL, Name: "CTRL1_XL", Description: "Accelerometer control", Access: "RW", Default: "0x00",
		BitFields: []mems.BitField{
			{Bits: "7:4", Name: "ODR_XL", Description: "Accelerometer data rate", Values: "0=Power-down, 1=12.5Hz, 2=26Hz, 3=52Hz, 4=104Hz, 5=208Hz, 6=416Hz, 7=833Hz, 8=1667Hz, 9=3333Hz, 10=6667Hz"},
			{Bits: "3:2", Name: "FS_XL", Description: "Accelerometer full scale", Values: "0=±2g, 1=±16g, 2=±4g, 3=±8g"},
			{Bits: "1", Name: "LPF2_XL_EN", Description: "LPF2 filter enable"},
		}},
	{Address: regCtrl2G, Name: "CTRL2_G", Description: "Gyroscope control", Access: "RW", Default: "0x00",
		BitFields: []mems.BitField{
			{Bits: "7:4", Name: "ODR_G", Description: "Gyroscope data rate", Values: "0=Power-down, 1=12.5Hz ... 10=6667Hz"},
			{Bits: "3:2", Name: "FS_G", Description: "Gyroscope full scale", Values: "0=±250dps, 1=±500dps, 2=±1000dps, 3=±2000dps"},
			{Bits: "1", Name: "FS_125", Description: "Select ±125dps"},
			{Bits: "0", Name: "FS_4000", Description: "Select ±4000dps"},
		}},
	{Address: regCtrl3C, Name: "CTRL3_C", Description: "Interface control", Access: "RW", Default: "0x04",
		BitFields: []mems.BitField{
			{Bits: "7", Name: "BOOT", Description: "Reboot memory content"},
			{Bits: "6", Name: "BDU", Description: "Block data update", Values: "0=Continuous, 1=Wait for read"},
			{Bits: "5", Name: "H_LACTIVE", Description: "Interrupt active level"},
			{Bits: "4", Name: "PP_OD", Description: "Push-pull/open-drain"},
			{Bits: "3", Name: "SIM", Description: "SPI interface mode", Values: "0=4-wire, 1=3-wire"},
			{Bits: "2", Name: "IF_INC", Description: "Register auto-increment", Values: "0=Disabled, 1=Enabled"},
			{Bits: "0", Name: "SW_RESET", Description: "Software reset"},
		}},
	{Address: 0x13, Name: "CTRL4_C", Description: "Control 4", Access: "RW", Default: "0x00"},
	{Address: 0x14, Name: "CTRL5_C", Description: "Self-test and rounding", Access: "RW", Default: "0x00"},
	{Address: 0x15, Name: "CTRL6_C", Description: "Gyroscope LPF1 bandwidth", Access: "RW", Default: "0x00"},
	{Address: 0x16, Name: "CTRL7_G", Description: "Gyroscope high-pass filter", Access: "RW", Default: "0x00"},
	{Address: 0x17, Name: "CTRL8_XL", Description: "Accelerometer filters", Access: "RW", Default: "0x00"},
	{Address: regStatus, Name: "STATUS_REG", Description: "Data status", Access: "R",
		BitFields: []mems.BitField{
			{Bits: "2", Name: "TDA", Description: "Temperature data available"},
			{Bits: "1", Name: "GDA", Description: "Gyroscope data available"},
			{Bits: "0", Name: "XLDA", Description: "Accelerometer data available"},
		}},
	{Address: 0x20, Name: "OUT_TEMP_L", Description: "Temperature low byte", Access: "R"},
	{Address: 0x21, Name: "OUT_TEMP_H", Description: "Temperature high byte", Access: "R"},
	{Address: regOutXLG, Name: "OUTX_L_G", Description: "Gyroscope X low byte", Access: "R"},
	{Address: 0x23, Name: "OUTX_H_G", Description: "Gyroscope X high byte", Access: "R"},
	{Address: 0x24, Name: "OUTY_L_G", Description: "Gyroscope Y low byte", Access: "R"},
	{Address: 0x25, Name: "OUTY_H_G", Description: "Gyroscope Y high byte", Access: "R"},
	{Address: 0x26, Name: "OUTZ_L_G", Description: "Gyroscope Z low byte", Access: "R"},
	{Address: 0x27, Name: "OUTZ_H_G", Description: "Gyroscope Z high byte", Access: "R"},
	{Address: regOutXLA, Name: "OUTX_L_A", Description: "Accelerometer X low byte", Access: "R"},
	{Address: 0x29, Name: "OUTX_H_A", Description: "Accelerometer X high byte", Access: "R"},
	{Address: 0x2A, Name: "OUTY_L_A", Description: "Accelerometer Y low byte", Access: "R"},
	{Address: 0x2B, Name: "OUTY_H_A", Description: "Accelerometer Y high byte", Access: "R"},
	{Address: 0x2C, Name: "OUTZ_L_A", Description: "Accelerometer Z low byte", Access: "R"},
	{Address: 0x2D, Name: "OUTZ_H_A", Description: "Accelerometer Z high byte", Access: "R"},
}
