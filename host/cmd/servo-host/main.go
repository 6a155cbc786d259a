// servo-host drives a rig of servos over a serial pulse bridge from an
// interactive console. The rig (link, channels, sequences) comes from a
// YAML file; motion runs on the host, the firmware only emits pulses.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"servoease/host/config"
	"servoease/host/serial"
	"servoease/output/serialbridge"
	"servoease/servo"
)

var (
	cfgFile = flag.String("cfg", "rig.yaml", "Rig description file")
	device  = flag.String("device", "", "Serial device path (overrides config)")
	verbose = flag.Bool("verbose", false, "Print every pulse command")
)

type rig struct {
	cfg      *config.Config
	registry *servo.Registry
	channels []*servo.Channel // parallel to cfg.Channels
}

func main() {
	flag.Parse()

	cfg, err := config.Load(*cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: load config: %v\n", err)
		os.Exit(1)
	}
	if *device != "" {
		cfg.Serial.Device = *device
	}

	fmt.Printf("Connecting to bridge on %s...\n", cfg.Serial.Device)
	port, err := serial.Open(&serial.Config{
		Device:      cfg.Serial.Device,
		Baud:        cfg.Serial.Baud,
		ReadTimeout: 100,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer port.Close()

	if *verbose {
		servo.SetDebugWriter(func(s string) { fmt.Println(s) })
	}

	r, err := buildRig(cfg, serialbridge.New(port))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Attached %d channels.\n", len(r.channels))

	fmt.Println("Enter commands (type 'help' for available commands, 'quit' to exit):")
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := strings.Fields(line)
		switch parts[0] {
		case "quit", "exit", "q":
			r.registry.StopAll()
			return

		case "help", "?":
			printHelp()

		case "list":
			r.list()

		case "write":
			if err := r.write(parts[1:]); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}

		case "move":
			if err := r.move(parts[1:]); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}

		case "moveall":
			if err := r.moveAll(parts[1:]); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}

		case "seq":
			if err := r.runSequence(parts[1:]); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}

		case "stop":
			r.registry.StopAll()
			fmt.Println("All moves stopped.")

		default:
			fmt.Printf("Unknown command: %s (type 'help' for available commands)\n", parts[0])
		}
	}

	if err := scanner.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "Error reading input: %v\n", err)
		os.Exit(1)
	}
}

func buildRig(cfg *config.Config, out servo.PulseOutput) (*rig, error) {
	r := &rig{
		cfg:      cfg,
		registry: servo.NewRegistry(len(cfg.Channels)),
	}
	for i := range cfg.Channels {
		cc := &cfg.Channels[i]
		ch, err := r.registry.AttachAt(servo.Config{
			Output:           out,
			Pin:              cc.Pin,
			MicrosecondsLow:  cc.MicrosLow,
			MicrosecondsHigh: cc.MicrosHigh,
			DegreeLow:        cc.DegreeLow,
			DegreeHigh:       cc.DegreeHigh,
		}, cc.Initial)
		if err != nil {
			return nil, fmt.Errorf("attach %s: %w", cc.Name, err)
		}
		ch.SetSpeed(cc.Speed)
		ch.SetEasing(cc.EasingSelector())
		if cc.Trim != 0 {
			ch.SetTrim(cc.Trim, true)
		}
		ch.SetReverse(cc.Reverse)
		r.channels = append(r.channels, ch)
	}
	return r, nil
}

// channel resolves a name or slot number from the config.
func (r *rig) channel(arg string) (*servo.Channel, error) {
	for i := range r.cfg.Channels {
		if r.cfg.Channels[i].Name == arg {
			return r.channels[i], nil
		}
	}
	if n, err := strconv.Atoi(arg); err == nil && n >= 0 && n < len(r.channels) {
		return r.channels[n], nil
	}
	return nil, fmt.Errorf("no such channel: %s", arg)
}

func (r *rig) list() {
	for i, ch := range r.channels {
		fmt.Printf("%-12s %s\n", r.cfg.Channels[i].Name, ch)
	}
}

func (r *rig) write(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: write <channel> <degrees>")
	}
	ch, err := r.channel(args[0])
	if err != nil {
		return err
	}
	deg, err := strconv.Atoi(args[1])
	if err != nil {
		return err
	}
	ch.Write(deg)
	return nil
}

func (r *rig) move(args []string) error {
	if len(args) < 2 || len(args) > 3 {
		return fmt.Errorf("usage: move <channel> <degrees> [degrees-per-second]")
	}
	ch, err := r.channel(args[0])
	if err != nil {
		return err
	}
	deg, err := strconv.Atoi(args[1])
	if err != nil {
		return err
	}
	if len(args) == 3 {
		speed, err := strconv.Atoi(args[2])
		if err != nil {
			return err
		}
		_, err = ch.StartMoveToWithSpeed(deg, uint16(speed))
		return err
	}
	_, err = ch.StartMoveTo(deg)
	return err
}

func (r *rig) moveAll(args []string) error {
	if len(args) != len(r.channels) {
		return fmt.Errorf("need %d positions", len(r.channels))
	}
	positions := make([]int, len(args))
	for i, a := range args {
		deg, err := strconv.Atoi(a)
		if err != nil {
			return err
		}
		positions[i] = deg
	}
	r.registry.SetNextPositions(positions...)
	r.registry.MoveAllToStaged()
	r.registry.SynchronizeAndStartAll()
	return nil
}

func (r *rig) runSequence(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: seq <name>")
	}
	for _, s := range r.cfg.Sequences {
		if s.Name != args[0] {
			continue
		}
		for i := range s.Steps {
			step := &s.Steps[i]
			r.registry.SetNextPositions(step.Positions...)
			if d := step.Duration(); d > 0 {
				r.registry.MoveAllToStagedIn(d)
			} else {
				r.registry.MoveAllToStaged()
			}
			r.registry.SynchronizeAll()
			r.registry.WaitForAllToStop(0)
			if p := step.Pause(); p > 0 {
				time.Sleep(p)
			}
		}
		return nil
	}
	return fmt.Errorf("no such sequence: %s", args[0])
}

func printHelp() {
	fmt.Println("\nAvailable commands:")
	fmt.Println("  list                         - Show all channels and their state")
	fmt.Println("  write <ch> <deg>             - Jump a channel to a position")
	fmt.Println("  move <ch> <deg> [speed]      - Smooth move, non-blocking")
	fmt.Println("  moveall <deg> <deg> ...      - Synchronized group move")
	fmt.Println("  seq <name>                   - Run a configured sequence")
	fmt.Println("  stop                         - Stop all moves")
	fmt.Println("  quit/exit/q                  - Exit the program")
	fmt.Println()
}
