package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/k7sle/tmv71d/pkg/client"
)

var (
	server = flag.String("server", "http://127.0.0.1:8080", "tmv71d API base URL")
)

func main() {
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		showHelp()
		return
	}

	c := client.NewClient(*server)

	var err error
	switch args[0] {
	case "status":
		err = cmdStatus(c)
	case "freq":
		err = cmdFreq(c, args[1:])
	case "mode":
		err = cmdMode(c, args[1:])
	case "vfo":
		err = cmdVFO(c, args[1:])
	case "split":
		err = cmdSplit(c, args[1:])
	case "ptt":
		err = cmdPTT(c, args[1:])
	case "channel":
		err = cmdChannel(c, args[1:])
	case "backup":
		err = cmdBackup(c, args[1:])
	case "ping":
		if c.IsConnected() {
			fmt.Println("OK")
		} else {
			err = fmt.Errorf("daemon not reachable at %s", *server)
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", args[0])
		showHelp()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func cmdStatus(c *client.Client) error {
	status, err := c.Status()
	if err != nil {
		return err
	}

	fmt.Printf("Model:   %s\n", status.Model)
	fmt.Printf("VFO:     %s\n", status.VFO)
	if status.SplitOn {
		fmt.Printf("Split:   on (TX %s)\n", status.SplitTX)
	} else {
		fmt.Printf("Split:   off\n")
	}
	for _, b := range status.Bands {
		busy := ""
		if b.Busy {
			busy = " [busy]"
		}
		fmt.Printf("Band %s:  %.6f MHz %s ch %03d pwr %d sql %d%s\n",
			b.Band, float64(b.Frequency)/1e6, b.Mode, b.Channel, b.RFPower, b.Squelch, busy)
	}
	fmt.Printf("Uptime:  %s (version %s)\n", status.Uptime, status.Version)
	return nil
}

func cmdFreq(c *client.Client, args []string) error {
	vfo := ""
	if len(args) > 0 {
		vfo = args[0]
	}

	if len(args) < 2 {
		hz, err := c.Frequency(vfo)
		if err != nil {
			return err
		}
		fmt.Printf("%.6f MHz\n", float64(hz)/1e6)
		return nil
	}

	mhz, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("invalid frequency %q", args[1])
	}
	if err := c.SetFrequency(vfo, int64(mhz*1e6)); err != nil {
		return err
	}

	// Show where the radio actually landed
	hz, err := c.Frequency(vfo)
	if err != nil {
		return err
	}
	fmt.Printf("%.6f MHz\n", float64(hz)/1e6)
	return nil
}

func cmdMode(c *client.Client, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: mode <vfo> <FM|NFM|AM>")
	}
	return c.SetMode(args[0], args[1])
}

func cmdVFO(c *client.Client, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: vfo <a|b|mem>")
	}
	return c.SetVFO(args[0])
}

func cmdSplit(c *client.Client, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: split on <tx-vfo> | split off")
	}
	switch args[0] {
	case "on":
		tx := "b"
		if len(args) > 1 {
			tx = args[1]
		}
		return c.SetSplit(tx, true)
	case "off":
		return c.SetSplit("", false)
	}
	return fmt.Errorf("usage: split on <tx-vfo> | split off")
}

func cmdPTT(c *client.Client, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: ptt on|off")
	}
	switch args[0] {
	case "on":
		return c.SetPTT(true)
	case "off":
		return c.SetPTT(false)
	}
	return fmt.Errorf("usage: ptt on|off")
}

func cmdChannel(c *client.Client, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: channel <number>")
	}
	ch, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid channel %q", args[0])
	}

	rec, err := c.Channel(ch)
	if err != nil {
		return err
	}

	fmt.Printf("Channel %03d", rec.Channel)
	if rec.Name != "" {
		fmt.Printf(" (%s)", rec.Name)
	}
	fmt.Println()
	fmt.Printf("  RX:   %.6f MHz %s\n", float64(rec.RxFreq)/1e6, rec.Mode)
	if rec.Shift != "" {
		fmt.Printf("  Rpt:  %s%.1f kHz\n", rec.Shift, float64(rec.OffsetHz)/1e3)
	}
	if rec.TxFreq != 0 {
		fmt.Printf("  TX:   %.6f MHz\n", float64(rec.TxFreq)/1e6)
	}
	if rec.ToneHz != 0 {
		fmt.Printf("  Tone: %.1f Hz\n", float64(rec.ToneHz)/10)
	}
	if rec.CTCSSHz != 0 {
		fmt.Printf("  CTCSS: %.1f Hz\n", float64(rec.CTCSSHz)/10)
	}
	if rec.DCSCode != 0 {
		fmt.Printf("  DCS:  %03d\n", rec.DCSCode)
	}
	if rec.Lockout {
		fmt.Printf("  Scan lockout\n")
	}
	return nil
}

func cmdBackup(c *client.Client, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: backup save [label] | backup list | backup restore <id> | backup delete <id>")
	}
	switch args[0] {
	case "save":
		label := ""
		if len(args) > 1 {
			label = args[1]
		}
		id, err := c.SaveBackup(label)
		if err != nil {
			return err
		}
		fmt.Printf("Saved backup %d\n", id)
		return nil

	case "list":
		backups, err := c.ListBackups()
		if err != nil {
			return err
		}
		if len(backups) == 0 {
			fmt.Println("No backups")
			return nil
		}
		for _, b := range backups {
			fmt.Printf("%4d  %s  %3d channels  %s\n",
				b.ID, b.CreatedAt.Format("2006-01-02 15:04:05"), b.ChannelCount, b.Label)
		}
		return nil

	case "restore":
		if len(args) < 2 {
			return fmt.Errorf("usage: backup restore <id>")
		}
		id, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid backup id %q", args[1])
		}
		if err := c.RestoreBackup(id); err != nil {
			return err
		}
		fmt.Printf("Restored backup %d\n", id)
		return nil

	case "delete":
		if len(args) < 2 {
			return fmt.Errorf("usage: backup delete <id>")
		}
		id, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid backup id %q", args[1])
		}
		if err := c.DeleteBackup(id); err != nil {
			return err
		}
		fmt.Printf("Deleted backup %d\n", id)
		return nil
	}
	return fmt.Errorf("usage: backup save [label] | backup list | backup restore <id> | backup delete <id>")
}

func showHelp() {
	fmt.Println("tmv71ctl - TM-V71 Daemon Control Tool")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Printf("  %s [options] <command>\n", os.Args[0])
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  -server <url>     tmv71d API base URL (default: http://127.0.0.1:8080)")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  status                    Show radio and daemon status")
	fmt.Println("  freq <vfo> [mhz]          Get or set a VFO frequency")
	fmt.Println("  mode <vfo> <FM|NFM|AM>    Set operating mode")
	fmt.Println("  vfo <a|b|mem>             Select tuning mode")
	fmt.Println("  split on <tx-vfo>         Enable split with the given TX side")
	fmt.Println("  split off                 Disable split")
	fmt.Println("  ptt on|off                Key or unkey the transmitter")
	fmt.Println("  channel <n>               Show a memory channel")
	fmt.Println("  backup save [label]       Snapshot all memory channels")
	fmt.Println("  backup list               List stored snapshots")
	fmt.Println("  backup restore <id>       Push a snapshot back to the radio")
	fmt.Println("  backup delete <id>        Remove a stored snapshot")
	fmt.Println("  ping                      Test daemon connection")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Printf("  %s status\n", os.Args[0])
	fmt.Printf("  %s freq a 146.52\n", os.Args[0])
	fmt.Printf("  %s split on b\n", os.Args[0])
}
