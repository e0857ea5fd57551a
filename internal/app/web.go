// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"fmt"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/relabs-tech/mems_bsp/internal/config"
	"github.com/relabs-tech/mems_bsp/internal/sensors"
)

// NewRegisterDebugMux routes the register debug tool.
func NewRegisterDebugMux(h *RegisterDebug, staticDir string) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", h.HandleWS)
	mux.HandleFunc("/api/sensor", h.HandleSensorData)
	if staticDir != "" {
		mux.Handle("/", http.FileServer(http.Dir(staticDir)))
	}
	return mux
}

// RunRegisterDebug brings up the configured sensors and serves the register
// debug tool until the listener fails.
func RunRegisterDebug(staticDir string) error {
	cfg := config.Get()

	mgr := sensors.GetManager()
	if err := mgr.Init(cfg.Sensors); err != nil {
		log.Warnf("register_debug: some sensors failed to start: %v", err)
	}
	if len(mgr.Names()) == 0 {
		return fmt.Errorf("register_debug: no sensor available")
	}
	defer mgr.Close()
	for _, n := range mgr.Names() {
		log.Infof("register_debug: %s available", n)
	}

	h := &RegisterDebug{Manager: mgr, AllowWrites: cfg.RegisterDebug.AllowWrites}
	if !h.AllowWrites {
		log.Info("register_debug: register writes disabled")
	}

	addr := cfg.RegisterDebug.Listen
	log.Infof("register debug tool listening on %s", addr)
	return http.ListenAndServe(addr, NewRegisterDebugMux(h, staticDir))
}
