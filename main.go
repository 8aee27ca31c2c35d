package main

import (
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	installPrefix string
	installReset  bool
	configPath    string
	debugLog      bool

	simEEPROM   string
	simMIDIPort string

	mainCmd = &cobra.Command{
		Use:              "stompctl",
		Short:            "Six switch, four bank MIDI foot controller",
		PersistentPreRun: setupLogging,
	}
	runCmd = &cobra.Command{
		Use:   "run",
		Short: "Run the controller on the configured hardware",
		Run:   runController,
	}
	simCmd = &cobra.Command{
		Use:   "sim",
		Short: "Run the controller in the terminal with keyboard switches",
		Run:   runSim,
	}
	dumpCmd = &cobra.Command{
		Use:   "dump [eeprom image]",
		Short: "Print the SET lines stored in an EEPROM image",
		Args:  cobra.MaximumNArgs(1),
		Run:   runDump,
	}
	portsCmd = &cobra.Command{
		Use:   "ports",
		Short: "List system MIDI output ports",
		Run:   runPorts,
	}
	installCmd = &cobra.Command{
		Use:   "install",
		Short: "Install binary, systemd unit and default config",
		Run:   runInstall,
	}
)

func setupLogging(cmd *cobra.Command, args []string) {
	if debugLog {
		log.SetLevel(log.DebugLevel)
	}
}

func runInstall(cmd *cobra.Command, args []string) {
	err := installTree(installPrefix, configPath, installReset)
	if err != nil {
		log.Fatalln("install:", err)
	}
}

func main() {
	installCmd.Flags().BoolVar(&installReset, "reset", false, "Reset config. Resets configuration to default, even if a config file already exists")
	installCmd.Flags().StringVarP(&installPrefix, "prefix", "p", "", "Install prefix. Prefix to install directory, default is /")
	simCmd.Flags().StringVar(&simEEPROM, "eeprom", "stompctl-sim.eeprom", "EEPROM image file used by the simulator")
	simCmd.Flags().StringVar(&simMIDIPort, "midi-port", "", "Also send MIDI to this system port")
	mainCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "/etc/stompctl.conf", "Config path. The path to the configuration file")
	mainCmd.PersistentFlags().BoolVar(&debugLog, "debug", false, "Enable debug logging")
	mainCmd.AddCommand(runCmd, simCmd, dumpCmd, portsCmd, installCmd)
	if err := mainCmd.Execute(); err != nil {
		log.Fatalln(err)
	}
}
