package cli

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "print chain introspection values (tip hash, logic hash, quad count)",
}

var inspectTipCmd = &cobra.Command{
	Use:   "tip",
	Short: "print the current chain tip hash",
	RunE:  runInspectTip,
}

var inspectLogicCmd = &cobra.Command{
	Use:   "logic",
	Short: "print the current logic hash over the hook registry",
	RunE:  runInspectLogic,
}

var inspectLenCmd = &cobra.Command{
	Use:   "len",
	Short: "print the current store quad count",
	RunE:  runInspectLen,
}

func init() {
	inspectCmd.AddCommand(inspectTipCmd, inspectLogicCmd, inspectLenCmd)
	RootCmd.AddCommand(inspectCmd)
}

func withEngine(fn func(e engineAccessor) error) error {
	cfg := loadConfig()
	logger := newLogger(cfg)

	e, closeEngine, err := buildEngine(cfg)
	if err != nil {
		logger.WithError(err).Error("failed to build engine")
		os.Exit(ExitInternalFailure)
		return err
	}
	defer closeEngine()

	return fn(e)
}

// engineAccessor is the subset of *engine.Engine the inspect subcommands
// need; declared locally so the commands don't each import engine
// directly.
type engineAccessor interface {
	TipHash() [32]byte
	LogicHash() [32]byte
	Len() int
}

func runInspectTip(cmd *cobra.Command, args []string) error {
	return withEngine(func(e engineAccessor) error {
		h := e.TipHash()
		fmt.Println(hex.EncodeToString(h[:]))
		return nil
	})
}

func runInspectLogic(cmd *cobra.Command, args []string) error {
	return withEngine(func(e engineAccessor) error {
		h := e.LogicHash()
		fmt.Println(hex.EncodeToString(h[:]))
		return nil
	})
}

func runInspectLen(cmd *cobra.Command, args []string) error {
	return withEngine(func(e engineAccessor) error {
		fmt.Println(e.Len())
		return nil
	})
}
