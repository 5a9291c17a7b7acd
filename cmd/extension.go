package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
)

// Environment variables read by stk, and passed to extensions.
const (
	EnvDataDir        = "STK_DATA_DIR"
	EnvStore          = "STK_STORE"
	EnvCurrency       = "STK_CURRENCY"
	EnvVerbose        = "STK_VERBOSE"
	EnvAddr           = "STK_ADDR"
	EnvTelegramToken  = "STK_TELEGRAM_TOKEN"
	EnvTelegramChatID = "STK_TELEGRAM_CHAT_ID"
)

// RunExtension attempts to find and execute an external stk-<subcommand> binary.
// It returns (true, exitCode) if an extension was found and executed,
// and (false, 0) if no extension was found.
func RunExtension(subcommand string, args []string) (bool, int) {
	externalCmdName := "stk-" + subcommand

	lp, err := exec.LookPath(externalCmdName)
	if err != nil {
		if Verbose {
			fmt.Fprintf(os.Stderr, "External command %q not found in PATH: %v\n", externalCmdName, err)
		}
		return false, 0
	}

	cmd := exec.Command(lp, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	// Pass global flags as environment variables
	cmd.Env = append(os.Environ(),
		EnvDataDir+"="+dataDir,
		EnvStore+"="+storeName,
		EnvCurrency+"="+currency,
		EnvVerbose+"="+strconv.FormatBool(Verbose),
	)

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
