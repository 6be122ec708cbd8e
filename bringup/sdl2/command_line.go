package main

import (
	"fmt"
	"os"
)

type commandLine struct {
	envFile    string
	validation bool
	verbose    bool
}

func printUsage() {
	fmt.Println("\nOptions")
	fmt.Println("\t--validation")
	fmt.Println("\t\tEnable the Khronos validation layer and route its messages to the log")
	fmt.Println("\t--env-file <path>")
	fmt.Println("\t\tRead BRINGUP_* settings from a dotenv file")
	fmt.Println("\t--verbose")
	fmt.Println("\t\tLog at debug level")
}

// processCommandLineArgs parses args, printing usage and exiting on --help or
// anything it does not recognize.
func processCommandLineArgs(args []string) commandLine {
	var cmd commandLine

	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--validation":
			cmd.validation = true
		case arg == "--verbose":
			cmd.verbose = true
		case arg == "--env-file" && i+1 < len(args):
			i++
			cmd.envFile = args[i]
		case arg == "--help" || arg == "-h":
			printUsage()
			os.Exit(0)
		default:
			fmt.Printf("\nUnrecognized option: %s\n", arg)
			fmt.Println("\nUse --help or -h for option list.")
			os.Exit(2)
		}
	}

	return cmd
}
