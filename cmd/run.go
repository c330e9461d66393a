package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"firestige.xyz/snooper/internal/capture"
	"firestige.xyz/snooper/internal/metrics"
	"firestige.xyz/snooper/internal/snooper"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the interactive analyzer",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInteractive()
	},
}

// menu is the interactive prompt loop: a thin driver over the controller
// state machine. All validation and transitions live in the controller.
type menu struct {
	snooper *snooper.Snooper
	scanner *bufio.Scanner
}

func runInteractive() error {
	if cfg.Metrics.Enabled {
		server := metrics.NewServer(cfg.Metrics.Addr, cfg.Metrics.Path)
		if err := server.Start(); err != nil {
			return err
		}
		defer server.Stop(context.Background())
	}

	s := snooper.New(cfg.Capture)
	defer s.Close()

	m := &menu{
		snooper: s,
		scanner: bufio.NewScanner(os.Stdin),
	}
	return m.loop()
}

func (m *menu) loop() error {
	for {
		clearScreen()
		m.printStatus()

		var quit bool
		switch m.snooper.State() {
		case snooper.StateConfigDevice:
			m.configDevice()
		case snooper.StateConfigTimeInterval:
			m.configTimeInterval()
		case snooper.StateConfigFile:
			m.configFile()
		case snooper.StateReportFormat:
			m.configFormat()
		case snooper.StatePacketFilter:
			m.configFilter()
		case snooper.StateReady:
			quit = m.readyMenu()
		case snooper.StateWorking:
			quit = m.workingMenu()
		case snooper.StateStopped:
			quit = m.stoppedMenu()
		}
		if quit {
			return nil
		}
	}
}

func (m *menu) printStatus() {
	fmt.Println("----------------------------------------------------------------------------")
	fmt.Println("--------------------------------- Snooper ----------------------------------")
	c := m.snooper.Config()
	if c.Device != "" {
		fmt.Printf("[interface: %s]\n", c.Device)
	} else {
		fmt.Println("[interface: None]")
	}
	fmt.Printf("Internal State: %s\n", m.snooper.State())
	fmt.Printf("Time interval before report generation: %ds\n", c.TimeInterval)
}

func (m *menu) configDevice() {
	if devices, err := capture.ListDevices(); err == nil {
		printDevices(devices)
	}
	fmt.Println("------------------------")
	name := m.prompt("Insert the interface name that you want to analyze :")

	if err := m.snooper.SetDevice(name); err != nil {
		m.retry(err)
	}
}

func (m *menu) configTimeInterval() {
	fmt.Println("Time interval selection")
	fmt.Println("------------------------")
	answer := m.prompt(fmt.Sprintf("Insert the time interval until report generation (in seconds, %ds by default) :", cfg.Defaults.TimeInterval))

	seconds := cfg.Defaults.TimeInterval
	if answer != "" {
		parsed, err := strconv.Atoi(answer)
		if err != nil {
			m.retry(err)
			return
		}
		seconds = parsed
	}

	if err := m.snooper.SetTimeInterval(seconds); err != nil {
		m.retry(err)
	}
}

func (m *menu) configFile() {
	fmt.Println("File Configuration")
	fmt.Println("------------------------")
	path := m.prompt(fmt.Sprintf("Insert the file name you want as report generation target (%q by default) :", cfg.Defaults.FilePath))
	if path == "" {
		path = cfg.Defaults.FilePath
	}

	if err := m.snooper.SetFilePath(path); err != nil {
		m.retry(err)
	}
}

func (m *menu) configFormat() {
	fmt.Println("Report format selection")
	fmt.Println("- raw")
	fmt.Println("- verbose")
	fmt.Println("- report")
	fmt.Println("------------------------")
	format := m.prompt(fmt.Sprintf("Insert the report format (%q by default) :", cfg.Defaults.Format))
	if format == "" {
		format = cfg.Defaults.Format
	}

	if err := m.snooper.SetReportFormat(format); err != nil {
		m.retry(err)
	}
}

func (m *menu) configFilter() {
	fmt.Println("Packet filter selection")
	fmt.Println("------------------------")
	question := "Insert the packet filter tokens (empty accepts all frames) :"
	if cfg.Defaults.Filter != "" {
		question = fmt.Sprintf("Insert the packet filter tokens (%q by default) :", cfg.Defaults.Filter)
	}
	filter := m.prompt(question)
	if filter == "" {
		filter = cfg.Defaults.Filter
	}

	if err := m.snooper.SetPacketFilter(filter); err != nil {
		m.retry(err)
	}
}

func (m *menu) readyMenu() bool {
	fmt.Println("Snooper is ready")
	fmt.Println("- start")
	fmt.Println("- abort (back to configuration)")
	fmt.Println("- exit")
	fmt.Println("------------------------")

	switch m.promptCommand("Type command :") {
	case "start":
		if err := m.snooper.Start(); err != nil {
			m.retry(err)
		}
	case "abort":
		m.snooper.Abort()
	case "exit":
		return true
	default:
		m.invalidCommand()
	}
	return false
}

func (m *menu) workingMenu() bool {
	fmt.Println("Snooper is working")
	fmt.Println("- stop")
	fmt.Println("- end (back to ready state)")
	fmt.Println("- abort (back to configuration)")
	fmt.Println("- exit")
	fmt.Println("------------------------")

	switch m.promptCommand("Type command :") {
	case "stop":
		if err := m.snooper.Stop(); err != nil {
			m.retry(err)
		}
	case "end":
		if err := m.snooper.End(); err != nil {
			m.retry(err)
		}
	case "abort":
		m.snooper.Abort()
	case "exit":
		return true
	default:
		m.invalidCommand()
	}
	return false
}

func (m *menu) stoppedMenu() bool {
	fmt.Println("Snooper is stopped")
	fmt.Println("- resume")
	fmt.Println("- end (back to ready state)")
	fmt.Println("- abort (back to configuration)")
	fmt.Println("- exit")
	fmt.Println("------------------------")

	switch m.promptCommand("Type command :") {
	case "resume":
		if err := m.snooper.Resume(); err != nil {
			m.retry(err)
		}
	case "end":
		if err := m.snooper.End(); err != nil {
			m.retry(err)
		}
	case "abort":
		m.snooper.Abort()
	case "exit":
		return true
	default:
		m.invalidCommand()
	}
	return false
}

func (m *menu) prompt(question string) string {
	fmt.Println(question)
	fmt.Print(">>> ")
	if !m.scanner.Scan() {
		return "exit"
	}
	return strings.TrimSpace(m.scanner.Text())
}

// promptCommand lowercases the answer; commands are case-insensitive while
// configuration values (device names, paths, filter tokens) are not.
func (m *menu) promptCommand(question string) string {
	return strings.ToLower(m.prompt(question))
}

func (m *menu) retry(err error) {
	fmt.Printf("%v. Retry. Press enter to continue.\n", err)
	m.scanner.Scan()
}

func (m *menu) invalidCommand() {
	fmt.Println("Invalid command. Retry. Press enter to continue.")
	m.scanner.Scan()
}

func clearScreen() {
	fmt.Print("\033[2J\033[H")
}
