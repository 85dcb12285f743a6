package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/k7sle/tmv71d/pkg/config"
	"github.com/k7sle/tmv71d/pkg/kenwood"
	"github.com/k7sle/tmv71d/pkg/storage"
)

// TMV71Daemon owns the serial link to the radio and exposes it over HTTP
type TMV71Daemon struct {
	config *config.Config
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// Core components
	rig       *kenwood.Rig
	store     *storage.ChannelStore
	webServer *http.Server

	model     string
	startTime time.Time
}

// NewTMV71Daemon creates a new daemon instance
func NewTMV71Daemon(cfg *config.Config) (*TMV71Daemon, error) {
	ctx, cancel := context.WithCancel(context.Background())

	daemon := &TMV71Daemon{
		config:    cfg,
		ctx:       ctx,
		cancel:    cancel,
		startTime: time.Now(),
	}

	// Initialize web server
	if err := daemon.setupWebServer(); err != nil {
		cancel()
		return nil, fmt.Errorf("failed to setup web server: %w", err)
	}

	return daemon, nil
}

// Start starts the daemon
func (d *TMV71Daemon) Start() error {
	log.Printf("Starting tmv71d daemon...")

	// Open the radio's serial port first
	timeout := time.Duration(d.config.Radio.ReadTimeout) * time.Millisecond
	transport, err := kenwood.OpenSerial(d.config.Radio.Device, d.config.Radio.BaudRate, timeout)
	if err != nil {
		return fmt.Errorf("failed to open serial port: %w", err)
	}
	transport.SetTrace(d.config.Radio.Trace)
	d.rig = kenwood.NewRig(transport)

	// Verify we are talking to the right radio
	model, err := d.rig.Identify()
	if err != nil {
		d.rig.Close()
		return fmt.Errorf("radio did not identify: %w", err)
	}
	d.model = model
	log.Printf("Connected to %s on %s", model, d.config.Radio.Device)

	// Open the channel backup store
	store, err := storage.NewChannelStore(d.config.Storage.DatabasePath, d.config.Storage.MaxBackups)
	if err != nil {
		d.rig.Close()
		return fmt.Errorf("failed to open channel store: %w", err)
	}
	d.store = store

	// Start web server
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		addr := fmt.Sprintf("%s:%d", d.config.Web.BindAddress, d.config.Web.Port)
		log.Printf("Starting web server on %s", addr)
		if err := d.webServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("Web server error: %v", err)
		}
	}()

	return nil
}

// Stop stops the daemon gracefully
func (d *TMV71Daemon) Stop() error {
	log.Printf("Stopping daemon...")

	d.cancel()

	// Shutdown web server
	if d.webServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := d.webServer.Shutdown(ctx); err != nil {
			log.Printf("Web server shutdown error: %v", err)
		}
	}

	// Close the channel store
	if d.store != nil {
		if err := d.store.Close(); err != nil {
			log.Printf("Channel store close error: %v", err)
		}
	}

	// Close the serial link
	if d.rig != nil {
		if err := d.rig.Close(); err != nil {
			log.Printf("Serial close error: %v", err)
		}
	}

	// Wait for goroutines to finish
	d.wg.Wait()

	log.Printf("Daemon stopped")
	return nil
}

// setupWebServer initializes the web server and routes
func (d *TMV71Daemon) setupWebServer() error {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	// API routes
	api := router.Group("/api/v1")
	{
		api.GET("/status", d.handleGetStatus)

		api.GET("/radio/frequency", d.handleGetFrequency)
		api.PUT("/radio/frequency", d.handleSetFrequency)
		api.GET("/radio/split_frequency", d.handleGetSplitFrequency)
		api.PUT("/radio/split_frequency", d.handleSetSplitFrequency)
		api.GET("/radio/mode", d.handleGetMode)
		api.PUT("/radio/mode", d.handleSetMode)
		api.GET("/radio/vfo", d.handleGetVFO)
		api.PUT("/radio/vfo", d.handleSetVFO)
		api.GET("/radio/split", d.handleGetSplit)
		api.PUT("/radio/split", d.handleSetSplit)
		api.PUT("/radio/ptt", d.handleSetPTT)
		api.PUT("/radio/tone_burst", d.handleToneBurst)
		api.GET("/radio/busy", d.handleGetBusy)
		api.GET("/radio/power", d.handleGetPower)
		api.PUT("/radio/power", d.handleSetPower)
		api.GET("/radio/squelch", d.handleGetSquelch)
		api.PUT("/radio/squelch", d.handleSetSquelch)
		api.PUT("/radio/memory", d.handleSelectMemory)
		api.PUT("/radio/key_lock", d.handleSetKeyLock)
		api.POST("/radio/tune", d.handleTune)

		api.GET("/channels/:id", d.handleGetChannel)
		api.PUT("/channels/:id", d.handlePutChannel)

		api.GET("/menu", d.handleGetMenu)
		api.PUT("/menu", d.handlePutMenu)

		api.GET("/backups", d.handleListBackups)
		api.POST("/backups", d.handleSaveBackup)
		api.POST("/backups/:id/restore", d.handleRestoreBackup)
		api.DELETE("/backups/:id", d.handleDeleteBackup)

		// WebSocket status stream
		api.GET("/ws", d.handleStatusWebSocket)
	}

	addr := fmt.Sprintf("%s:%d", d.config.Web.BindAddress, d.config.Web.Port)
	d.webServer = &http.Server{
		Addr:    addr,
		Handler: router,
	}

	return nil
}
