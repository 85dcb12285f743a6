package main

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/k7sle/tmv71d/pkg/kenwood"
	"github.com/k7sle/tmv71d/pkg/protocol"
)

// buildStatus assembles the full daemon status from the radio
func (d *TMV71Daemon) buildStatus() (*protocol.Status, error) {
	vfo, err := d.rig.CurrentVFO()
	if err != nil {
		return nil, err
	}
	splitOn, splitTX, err := d.rig.Split()
	if err != nil {
		return nil, err
	}

	status := &protocol.Status{
		Model:     d.model,
		Connected: true,
		VFO:       vfo.String(),
		SplitOn:   splitOn,
		Uptime:    time.Since(d.startTime).Round(time.Second).String(),
		StartTime: d.startTime,
		Version:   Version,
	}
	if splitOn {
		status.SplitTX = splitTX.String()
	}

	for _, band := range []kenwood.Band{kenwood.BandA, kenwood.BandB} {
		br := protocol.BandRig{Band: band.String()}
		if ch, err := d.rig.MemoryChannel(band); err == nil {
			br.Channel = ch
			if rec, err := d.rig.ReadChannel(ch); err == nil {
				br.Frequency = rec.RxFreqHz
				br.Mode = protocol.ModeName(rec.Mode)
			}
		}
		if busy, err := d.rig.Busy(band); err == nil {
			br.Busy = busy
		}
		if p, err := d.rig.RFPower(band); err == nil {
			br.RFPower = p
		}
		if s, err := d.rig.Squelch(band); err == nil {
			br.Squelch = s
		}
		status.Bands[band] = br
	}

	return status, nil
}

// handleGetStatus returns daemon and radio status
func (d *TMV71Daemon) handleGetStatus(c *gin.Context) {
	status, err := d.buildStatus()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, status)
}

// queryVFO parses the optional "vfo" query parameter
func queryVFO(c *gin.Context) (kenwood.VFO, error) {
	return protocol.ParseVFO(c.DefaultQuery("vfo", ""))
}

// handleGetFrequency returns the receive frequency of a selector
func (d *TMV71Daemon) handleGetFrequency(c *gin.Context) {
	vfo, err := queryVFO(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hz, err := d.rig.Frequency(vfo)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"vfo":       vfo.String(),
		"frequency": hz,
	})
}

// handleSetFrequency tunes a selector
func (d *TMV71Daemon) handleSetFrequency(c *gin.Context) {
	var req protocol.FrequencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	vfo, err := protocol.ParseVFO(req.VFO)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := d.rig.SetFrequency(vfo, req.Frequency); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// Report the frequency actually landed on after grid snapping
	hz, err := d.rig.Frequency(vfo)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"vfo":       vfo.String(),
		"frequency": hz,
	})
}

// handleGetSplitFrequency returns the transmit frequency of a selector
func (d *TMV71Daemon) handleGetSplitFrequency(c *gin.Context) {
	vfo, err := queryVFO(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hz, err := d.rig.SplitFrequency(vfo)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"vfo":       vfo.String(),
		"frequency": hz,
	})
}

// handleSetSplitFrequency tunes the transmit side of an active split
func (d *TMV71Daemon) handleSetSplitFrequency(c *gin.Context) {
	var req protocol.FrequencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	vfo, err := protocol.ParseVFO(req.VFO)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := d.rig.SetSplitFrequency(vfo, req.Frequency); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleGetMode returns the operating mode of a selector
func (d *TMV71Daemon) handleGetMode(c *gin.Context) {
	vfo, err := queryVFO(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	mode, err := d.rig.Mode(vfo)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"vfo":  vfo.String(),
		"mode": protocol.ModeName(mode),
	})
}

// handleSetMode sets the operating mode of a selector
func (d *TMV71Daemon) handleSetMode(c *gin.Context) {
	var req protocol.ModeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	vfo, err := protocol.ParseVFO(req.VFO)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	mode, err := protocol.ParseMode(req.Mode)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := d.rig.SetMode(vfo, mode); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleGetVFO returns the active tuning selector
func (d *TMV71Daemon) handleGetVFO(c *gin.Context) {
	vfo, err := d.rig.CurrentVFO()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"vfo": vfo.String()})
}

// handleSetVFO selects a pseudo-VFO or memory operation
func (d *TMV71Daemon) handleSetVFO(c *gin.Context) {
	var req protocol.VFORequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	vfo, err := protocol.ParseVFO(req.VFO)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := d.rig.SetVFO(vfo); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"vfo": vfo.String()})
}

// handleGetSplit returns the split state
func (d *TMV71Daemon) handleGetSplit(c *gin.Context) {
	on, tx, err := d.rig.Split()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := gin.H{"on": on}
	if on {
		resp["tx"] = tx.String()
	}
	c.JSON(http.StatusOK, resp)
}

// handleSetSplit configures split operation
func (d *TMV71Daemon) handleSetSplit(c *gin.Context) {
	var req protocol.SplitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tx := kenwood.VFOB
	if req.TX != "" {
		var err error
		tx, err = protocol.ParseVFO(req.TX)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	if err := d.rig.SetSplit(tx, req.On); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleSetPTT keys or unkeys the transmitter
func (d *TMV71Daemon) handleSetPTT(c *gin.Context) {
	var req protocol.PTTRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := d.rig.SetPTT(req.On); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ptt": req.On})
}

// handleToneBurst starts or stops the 1750 Hz tone burst
func (d *TMV71Daemon) handleToneBurst(c *gin.Context) {
	var req protocol.PTTRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := d.rig.SendToneBurst(req.On); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"tone_burst": req.On})
}

// queryBand parses the optional "band" query parameter
func queryBand(c *gin.Context) (kenwood.Band, error) {
	return protocol.ParseBand(c.DefaultQuery("band", ""))
}

// handleGetBusy returns the busy state of a band
func (d *TMV71Daemon) handleGetBusy(c *gin.Context) {
	band, err := queryBand(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	busy, err := d.rig.Busy(band)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"band": band.String(),
		"busy": busy,
	})
}

// handleGetPower returns the RF power level of a band
func (d *TMV71Daemon) handleGetPower(c *gin.Context) {
	band, err := queryBand(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	level, err := d.rig.RFPower(band)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"band":  band.String(),
		"level": level,
	})
}

// handleSetPower sets the RF power level of a band
func (d *TMV71Daemon) handleSetPower(c *gin.Context) {
	var req protocol.LevelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	band, err := protocol.ParseBand(req.Band)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := d.rig.SetRFPower(band, req.Level); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleGetSquelch returns the squelch level of a band
func (d *TMV71Daemon) handleGetSquelch(c *gin.Context) {
	band, err := queryBand(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	level, err := d.rig.Squelch(band)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"band":  band.String(),
		"level": level,
	})
}

// handleSetSquelch sets the squelch level of a band
func (d *TMV71Daemon) handleSetSquelch(c *gin.Context) {
	var req protocol.LevelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	band, err := protocol.ParseBand(req.Band)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := d.rig.SetSquelch(band, req.Level); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleSelectMemory recalls a memory channel on a band
func (d *TMV71Daemon) handleSelectMemory(c *gin.Context) {
	var req protocol.MemoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	band, err := protocol.ParseBand(req.Band)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := d.rig.SetMemoryChannel(band, req.Channel); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"band":    band.String(),
		"channel": req.Channel,
	})
}

// handleSetKeyLock locks or unlocks the front panel
func (d *TMV71Daemon) handleSetKeyLock(c *gin.Context) {
	var req protocol.PTTRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := d.rig.SetKeyLock(req.On); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"locked": req.On})
}

// handleTune steps the control band up or down
func (d *TMV71Daemon) handleTune(c *gin.Context) {
	var req struct {
		Direction string `json:"direction" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var err error
	switch strings.ToLower(req.Direction) {
	case "up":
		err = d.rig.TuneUp()
	case "down":
		err = d.rig.TuneDown()
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unknown direction %q", req.Direction)})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// channelParam parses and validates the :id path parameter
func channelParam(c *gin.Context) (int, error) {
	ch, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return 0, fmt.Errorf("invalid channel %q", c.Param("id"))
	}
	if ch < 0 || ch > 999 {
		return 0, fmt.Errorf("channel %d out of range", ch)
	}
	return ch, nil
}

// handleGetChannel reads one memory channel record
func (d *TMV71Daemon) handleGetChannel(c *gin.Context) {
	ch, err := channelParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	channel, err := d.rig.ReadChannel(ch)
	if err != nil {
		if errors.Is(err, kenwood.ErrChannelNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	rec, err := protocol.FromChannel(channel)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, rec)
}

// handlePutChannel writes one memory channel record
func (d *TMV71Daemon) handlePutChannel(c *gin.Context) {
	ch, err := channelParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var rec protocol.ChannelRecord
	if err := c.ShouldBindJSON(&rec); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rec.Channel = ch

	channel, err := protocol.ToChannel(rec)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := d.rig.WriteChannel(channel); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"channel": ch})
}

// scan resume names used by the menu API
func scanResumeName(mode int) string {
	switch mode {
	case kenwood.ScanResumeTime:
		return "time"
	case kenwood.ScanResumeCarrier:
		return "carrier"
	case kenwood.ScanResumeSeek:
		return "seek"
	}
	return "unknown"
}

func parseScanResume(name string) (int, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "time":
		return kenwood.ScanResumeTime, nil
	case "carrier":
		return kenwood.ScanResumeCarrier, nil
	case "seek":
		return kenwood.ScanResumeSeek, nil
	}
	return 0, fmt.Errorf("unknown scan resume mode %q", name)
}

// handleGetMenu returns the well-known menu settings
func (d *TMV71Daemon) handleGetMenu(c *gin.Context) {
	mu, err := d.rig.MenuSettingsSnapshot()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"beep":                   mu.Beep(),
		"brightness":             mu.Brightness(),
		"auto_power_off_minutes": mu.AutoPowerOffMinutes(),
		"ext_data_band":          mu.ExtDataBand(),
		"auto_repeater_offset":   mu.AutoRepeaterOffset(),
		"aip":                    mu.AIP(),
		"scan_resume":            scanResumeName(mu.ScanResume()),
	})
}

// handlePutMenu applies a partial menu update; absent fields are untouched
func (d *TMV71Daemon) handlePutMenu(c *gin.Context) {
	var req struct {
		Beep               *bool   `json:"beep"`
		Brightness         *int    `json:"brightness"`
		AutoPowerOff       *int    `json:"auto_power_off_minutes"`
		ExtDataBand        *int    `json:"ext_data_band"`
		AutoRepeaterOffset *bool   `json:"auto_repeater_offset"`
		AIP                *bool   `json:"aip"`
		ScanResume         *string `json:"scan_resume"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	apply := func(err error) bool {
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return false
		}
		return true
	}

	if req.Beep != nil && !apply(d.rig.SetBeep(*req.Beep)) {
		return
	}
	if req.Brightness != nil && !apply(d.rig.SetBrightness(*req.Brightness)) {
		return
	}
	if req.AutoPowerOff != nil && !apply(d.rig.SetAutoPowerOff(*req.AutoPowerOff)) {
		return
	}
	if req.ExtDataBand != nil && !apply(d.rig.SetExtDataBand(*req.ExtDataBand)) {
		return
	}
	if req.AutoRepeaterOffset != nil && !apply(d.rig.SetAutoRepeaterOffset(*req.AutoRepeaterOffset)) {
		return
	}
	if req.AIP != nil && !apply(d.rig.SetAIP(*req.AIP)) {
		return
	}
	if req.ScanResume != nil {
		mode, err := parseScanResume(*req.ScanResume)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if !apply(d.rig.SetScanResume(mode)) {
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleSaveBackup snapshots all user memory channels into the store
func (d *TMV71Daemon) handleSaveBackup(c *gin.Context) {
	var req struct {
		Label string `json:"label"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var channels []kenwood.Channel
	for ch := 0; ch <= 199; ch++ {
		channel, err := d.rig.ReadChannel(ch)
		if err != nil {
			if errors.Is(err, kenwood.ErrChannelNotFound) {
				continue
			}
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": fmt.Sprintf("failed to read channel %d: %v", ch, err),
			})
			return
		}
		channels = append(channels, channel)
	}

	id, err := d.store.SaveBackup(req.Label, channels)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":       id,
		"label":    req.Label,
		"channels": len(channels),
	})
}

// handleListBackups lists stored snapshots
func (d *TMV71Daemon) handleListBackups(c *gin.Context) {
	backups, err := d.store.ListBackups()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"backups": backups,
		"count":   len(backups),
	})
}

// backupParam parses the :id path parameter
func backupParam(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid backup id %q", c.Param("id"))
	}
	return id, nil
}

// handleRestoreBackup pushes a stored snapshot back to the radio
func (d *TMV71Daemon) handleRestoreBackup(c *gin.Context) {
	id, err := backupParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	channels, err := d.store.LoadBackup(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	for _, channel := range channels {
		if err := d.rig.WriteChannel(channel); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": fmt.Sprintf("failed to write channel %d: %v", channel.Channel, err),
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"id":       id,
		"channels": len(channels),
	})
}

// handleDeleteBackup removes a stored snapshot
func (d *TMV71Daemon) handleDeleteBackup(c *gin.Context) {
	id, err := backupParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := d.store.DeleteBackup(id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

// WebSocket upgrader
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for development
	},
}

// handleStatusWebSocket streams the radio status to a web client
func (d *TMV71Daemon) handleStatusWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	log.Printf("Status WebSocket client connected")

	// Poll the radio at the configured interval
	interval := time.Duration(d.config.Radio.PollInterval) * time.Millisecond
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Drain client messages so closes are noticed
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-ticker.C:
			status, err := d.buildStatus()
			if err != nil {
				log.Printf("WebSocket: failed to read status: %v", err)
				continue
			}
			if err := conn.WriteJSON(status); err != nil {
				log.Printf("WebSocket write error: %v", err)
				return
			}

		case <-done:
			log.Printf("Status WebSocket client disconnected")
			return

		case <-d.ctx.Done():
			log.Printf("Status WebSocket client disconnected (context cancelled)")
			return
		}
	}
}
