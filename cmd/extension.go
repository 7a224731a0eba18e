package cmd

import (
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
)

// Environment passed to extensions, read back by config.Load and loadConfig.
const (
	EnvConfigFile = "BANKROLL_CONFIG"
	EnvLedgerFile = "BANKROLL_LEDGER_FILE"
)

// RunExtension attempts to find and execute an external bankroll-<subcommand> binary.
// It returns (true, exitCode) if an extension was found and executed,
// and (false, 0) if no extension was found.
func RunExtension(subcommand string, args []string) (bool, int) {
	externalCmdName := "bankroll-" + subcommand

	lp, err := exec.LookPath(externalCmdName)
	if err != nil {
		log.Printf("External command %q not found in PATH: %v", externalCmdName, err)
		return false, 0
	}

	cmd := exec.Command(lp, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = stdout
	cmd.Stderr = os.Stderr

	// Pass global flags as environment variables
	cmd.Env = os.Environ()
	if *configFile != "" {
		cmd.Env = append(cmd.Env, EnvConfigFile+"="+*configFile)
	}
	if *ledgerFile != "" {
		cmd.Env = append(cmd.Env, EnvLedgerFile+"="+*ledgerFile)
	}

	if err := cmd.Run(); err != nil {
		var exitError *exec.ExitError
		if errors.As(err, &exitError) {
			return true, exitError.ExitCode()
		}
		fmt.Fprintf(os.Stderr, "Error executing external command %q: %v\n", externalCmdName, err)
		return true, 1
	}
	return true, 0
}
