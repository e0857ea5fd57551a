// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"github.com/relabs-tech/mems_bsp/internal/mems"
	"github.com/relabs-tech/mems_bsp/internal/sensors"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for local development
	},
}

// RegisterDebug serves the register debugging websocket and the live sample
// endpoint for the sensors of a manager.
type RegisterDebug struct {
	Manager     *sensors.Manager
	AllowWrites bool
}

// RegisterCmd is a websocket request.
type RegisterCmd struct {
	Action  string `json:"action"` // list, get_map, read, read_all, write, init, export_config
	Sensor  string `json:"sensor,omitempty"`
	Address string `json:"addr,omitempty"`
	Value   string `json:"value,omitempty"`
}

// RegisterResponse is a websocket reply.
type RegisterResponse struct {
	Type        string            `json:"type"` // "sensors", "register_data", "register_map", "status", "export_config", "error"
	Sensor      string            `json:"sensor,omitempty"`
	Part        string            `json:"part,omitempty"`
	Address     string            `json:"addr,omitempty"`
	Value       string            `json:"value,omitempty"`
	Registers   map[string]string `json:"registers,omitempty"` // for bulk read
	Timestamp   string            `json:"timestamp,omitempty"`
	Message     string            `json:"message,omitempty"`
	Status      string            `json:"status,omitempty"`
	RegisterMap []RegisterInfo    `json:"register_map,omitempty"`
	Sensors     []SensorInfo      `json:"sensors,omitempty"`
	Config      string            `json:"config,omitempty"`
	Filename    string            `json:"filename,omitempty"`
}

// RegisterInfo is mems.RegisterInfo with the address rendered for the UI.
type RegisterInfo struct {
	Address string `json:"address"`
	mems.RegisterInfo
}

type SensorInfo struct {
	Name         string            `json:"name"`
	Part         string            `json:"part"`
	Capabilities mems.Capabilities `json:"capabilities"`
}

// RegisterConfigFile represents the JSON structure for exported register configuration
type RegisterConfigFile struct {
	Version   int               `json:"version"`
	Sensor    string            `json:"sensor"`
	Part      string            `json:"part"`
	Timestamp string            `json:"timestamp"`
	Registers map[string]string `json:"registers"` // hex address -> hex value
}

// HandleWS handles the WebSocket connection for register debugging.
func (h *RegisterDebug) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Errorf("register_debug: websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	if err := conn.WriteJSON(h.sensorList()); err != nil {
		log.Errorf("register_debug: error sending sensor list: %v", err)
		return
	}

	for {
		var cmd RegisterCmd
		if err := conn.ReadJSON(&cmd); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Errorf("register_debug: websocket error: %v", err)
			}
			return
		}
		if err := conn.WriteJSON(h.handle(cmd)); err != nil {
			log.Errorf("register_debug: write error: %v", err)
			return
		}
	}
}

// handle runs one command and builds its reply.
func (h *RegisterDebug) handle(cmd RegisterCmd) RegisterResponse {
	if cmd.Action == "list" {
		return h.sensorList()
	}
	if cmd.Action == "" {
		return errorResponse("missing or invalid action field")
	}
	if cmd.Sensor == "" {
		return errorResponse("missing sensor field")
	}
	s, err := h.Manager.Get(cmd.Sensor)
	if err != nil {
		return errorResponse(err.Error())
	}

	switch cmd.Action {
	case "get_map":
		regs := s.Registers()
		out := make([]RegisterInfo, len(regs))
		for i, r := range regs {
			out[i] = RegisterInfo{Address: r.Hex(), RegisterInfo: r}
		}
		return RegisterResponse{Type: "register_map", Sensor: s.Name(), Part: s.Part(), RegisterMap: out}

	case "read":
		addr, err := parseByte(cmd.Address)
		if err != nil {
			return errorResponse(fmt.Sprintf("invalid address format: %s", cmd.Address))
		}
		v, err := s.ReadRegister(addr)
		if err != nil {
			return errorResponse(fmt.Sprintf("read error: %v", err))
		}
		return RegisterResponse{
			Type:      "register_data",
			Sensor:    s.Name(),
			Address:   hexByte(addr),
			Value:     hexByte(v),
			Timestamp: time.Now().Format(time.RFC3339),
		}

	case "read_all":
		regs, err := s.ReadAll()
		if err != nil {
			return errorResponse(fmt.Sprintf("read all error: %v", err))
		}
		return RegisterResponse{
			Type:      "register_data",
			Sensor:    s.Name(),
			Registers: hexMap(regs),
			Timestamp: time.Now().Format(time.RFC3339),
		}

	case "write":
		if !h.AllowWrites {
			return errorResponse("register writes are disabled")
		}
		addr, err := parseByte(cmd.Address)
		if err != nil {
			return errorResponse(fmt.Sprintf("invalid address format: %s", cmd.Address))
		}
		v, err := parseByte(cmd.Value)
		if err != nil {
			return errorResponse(fmt.Sprintf("invalid value format: %s", cmd.Value))
		}
		if regs := s.Registers(); regs != nil {
			if r, ok := mems.LookupRegister(regs, addr); !ok || !r.Writable() {
				return errorResponse(fmt.Sprintf("register %s is not writable", hexByte(addr)))
			}
		}
		if err := s.WriteRegister(addr, v); err != nil {
			return errorResponse(fmt.Sprintf("write error: %v", err))
		}
		return RegisterResponse{
			Type:      "register_data",
			Sensor:    s.Name(),
			Address:   hexByte(addr),
			Value:     hexByte(v),
			Timestamp: time.Now().Format(time.RFC3339),
			Message:   "write successful",
		}

	case "init":
		if err := s.Reinit(); err != nil {
			return errorResponse(fmt.Sprintf("reinit error: %v", err))
		}
		return RegisterResponse{Type: "status", Sensor: s.Name(), Status: "initialized", Message: "sensor reinitialized successfully"}

	case "export_config":
		regs, err := s.ReadAll()
		if err != nil {
			return errorResponse(fmt.Sprintf("export error: %v", err))
		}
		now := time.Now()
		file := RegisterConfigFile{
			Version:   1,
			Sensor:    s.Name(),
			Part:      s.Part(),
			Timestamp: now.Format(time.RFC3339),
			Registers: hexMap(regs),
		}
		b, err := json.Marshal(file)
		if err != nil {
			return errorResponse(fmt.Sprintf("export error: %v", err))
		}
		return RegisterResponse{
			Type:     "export_config",
			Sensor:   s.Name(),
			Message:  "config exported",
			Config:   string(b),
			Filename: fmt.Sprintf("%s_%s_registers.json", s.Name(), now.Format("20060102_150405")),
		}
	}
	return errorResponse(fmt.Sprintf("unknown action: %s", cmd.Action))
}

func (h *RegisterDebug) sensorList() RegisterResponse {
	var list []SensorInfo
	for _, s := range h.Manager.Sensors() {
		list = append(list, SensorInfo{Name: s.Name(), Part: s.Part(), Capabilities: s.Capabilities()})
	}
	return RegisterResponse{Type: "sensors", Sensors: list}
}

// HandleSensorData serves one fresh reading of a sensor.
// Query parameter: ?sensor=<name>
func (h *RegisterDebug) HandleSensorData(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	name := r.URL.Query().Get("sensor")
	if name == "" {
		http.Error(w, `{"error": "missing sensor parameter"}`, http.StatusBadRequest)
		return
	}
	s, err := h.Manager.Get(name)
	if err != nil {
		http.Error(w, fmt.Sprintf(`{"error": %q}`, err.Error()), http.StatusNotFound)
		return
	}
	samples, err := s.Read()
	if err != nil {
		http.Error(w, fmt.Sprintf(`{"error": %q}`, err.Error()), http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(samples)
}

func errorResponse(message string) RegisterResponse {
	return RegisterResponse{Type: "error", Message: message}
}

// parseByte accepts decimal or 0x-prefixed hex.
func parseByte(s string) (byte, error) {
	v, err := strconv.ParseUint(s, 0, 8)
	return byte(v), err
}

func hexByte(b byte) string { return fmt.Sprintf("0x%02X", b) }

func hexMap(regs map[byte]byte) map[string]string {
	out := make(map[string]string, len(regs))
	for a, v := range regs {
		out[hexByte(a)] = hexByte(v)
	}
	return out
}
