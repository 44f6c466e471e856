package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/mcncl/jsonlite/internal/atm"
	"github.com/mcncl/jsonlite/internal/config"
	"github.com/mcncl/jsonlite/internal/ctxlog"
	"github.com/mcncl/jsonlite/internal/errors"
	"github.com/mcncl/jsonlite/internal/formatter"
	"github.com/mcncl/jsonlite/internal/inspect"
	"github.com/mcncl/jsonlite/internal/jsonlite"
	"github.com/mcncl/jsonlite/internal/parser"
)

// Version information
const (
	Version = "0.1.0"
)

// Globals are flags shared by every command
type Globals struct {
	Config  string           `help:"Path to a config file. Defaults to the nearest .jsonlite.yml." short:"c" type:"path"`
	Debug   bool             `help:"Enable debug logging." short:"d"`
	Version kong.VersionFlag `help:"Show version information." short:"v"`
}

// CLI defines the command-line interface
type CLI struct {
	Globals

	Fmt     FmtCmd     `cmd:"" help:"Parse a document and render it again."`
	Get     GetCmd     `cmd:"" help:"Print the value at a path such as accounts[0].name."`
	Inspect InspectCmd `cmd:"" help:"List every path in a document with its kind."`
	ATM     ATMCmd     `cmd:"" name:"atm" help:"Manage accounts in the ATM data file."`
}

// env holds the process streams so commands can be run in tests
type env struct {
	ctx    context.Context
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run parses args and executes the selected command, returning the exit code
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer, opts ...kong.Option) int {
	var cli CLI
	options := append([]kong.Option{
		kong.Name("jsonlite"),
		kong.Description("A lenient JSON formatter and a small file-backed ATM"),
		kong.UsageOnError(),
		kong.Writers(stdout, stderr),
		kong.Vars{"version": Version},
	}, opts...)

	parser, err := kong.New(&cli, options...)
	if err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return 1
	}

	kctx, err := parser.Parse(args)
	if err != nil {
		// Usage has already been printed by kong.UsageOnError()
		fmt.Fprintf(stderr, "%v\n", err)
		return 1
	}

	e := &env{ctx: ctx, stdin: stdin, stdout: stdout, stderr: stderr}
	if err := kctx.Run(&cli.Globals, e); err != nil {
		fmt.Fprintf(stderr, "%s\n", errors.UserFriendlyError(err))
		return 1
	}
	return 0
}

// load resolves the config file and applies flag overrides. The logger it
// builds is attached to e.ctx.
func (g *Globals) load(e *env, o config.Overrides) (*config.Config, error) {
	path := g.Config
	if path == "" {
		path = config.FindConfigFile()
	}
	o.Debug = g.Debug

	cfg, err := config.LoadConfigWithCLI(path, o)
	if err != nil {
		return nil, errors.NewConfigError(err.Error(), err)
	}
	logger := newLogger(cfg.Log.Level, cfg.Log.Format, e.stderr)
	if path != "" {
		logger.Debug("using config file", "path", path)
	}
	e.ctx = ctxlog.WithLogger(e.ctx, logger)
	return cfg, nil
}

// FmtCmd re-renders a document
type FmtCmd struct {
	File    string  `arg:"" optional:"" help:"Document to format. Reads stdin when omitted." type:"path"`
	Output  string  `help:"Write to this file instead of stdout." short:"o" type:"path"`
	Indent  *int    `help:"Spaces per nesting level."`
	Strict  *bool   `help:"Reject malformed documents instead of recovering. --strict=false overrides the config file."`
	KeyCase *string `help:"Rewrite keys as camel, lower_camel, snake or kebab." name:"key-case"`
	Compact bool    `help:"Write single-line standard JSON."`
}

// Run executes the fmt command
func (c *FmtCmd) Run(g *Globals, e *env) error {
	cfg, err := g.load(e, config.Overrides{Indent: c.Indent, Strict: c.Strict, KeyCase: c.KeyCase})
	if err != nil {
		return err
	}

	result, err := readDocument(e, c.File, cfg.Strict)
	if err != nil {
		return err
	}
	if n := len(result.Anomalies); n > 0 {
		ctxlog.FromContext(e.ctx).Warn("document was malformed, output is best effort", "anomalies", n)
	}

	out, err := formatter.NewFormatter(cfg).Compact(c.Compact).Format(result.Object)
	if err != nil {
		return errors.NewOutputError("failed to format document", err)
	}
	return writeOutput(e, c.Output, out)
}

// GetCmd prints one value from a document
type GetCmd struct {
	File string `arg:"" help:"Document to read." type:"path"`
	Path string `arg:"" help:"Path to the value, e.g. accounts[0].transactionHistory[1]."`
}

// Run executes the get command
func (c *GetCmd) Run(g *Globals, e *env) error {
	cfg, err := g.load(e, config.Overrides{})
	if err != nil {
		return err
	}
	result, err := readDocument(e, c.File, cfg.Strict)
	if err != nil {
		return err
	}

	v, err := inspect.Lookup(result.Object, c.Path)
	if err != nil {
		return err
	}
	return writeOutput(e, "", renderValue(v, cfg.Indent))
}

// InspectCmd lists the structure of a document
type InspectCmd struct {
	File string `arg:"" help:"Document to inspect." type:"path"`
}

// Run executes the inspect command
func (c *InspectCmd) Run(g *Globals, e *env) error {
	cfg, err := g.load(e, config.Overrides{})
	if err != nil {
		return err
	}
	result, err := readDocument(e, c.File, cfg.Strict)
	if err != nil {
		return err
	}

	var b strings.Builder
	for _, entry := range inspect.Walk(result.Object) {
		b.WriteString(entry.String())
		b.WriteByte('\n')
	}
	for _, a := range result.Anomalies {
		fmt.Fprintf(&b, "! %s\n", a)
	}
	return writeOutput(e, "", strings.TrimSuffix(b.String(), "\n"))
}

// readDocument parses a file, or stdin when path is empty
func readDocument(e *env, path string, strict bool) (jsonlite.Result, error) {
	opts := parser.Options{Strict: strict, Logger: ctxlog.FromContext(e.ctx)}
	if path != "" {
		return parser.ParseFile(path, opts)
	}

	if f, ok := e.stdin.(*os.File); ok {
		info, err := f.Stat()
		if err != nil {
			return jsonlite.Result{}, errors.NewInputError("failed to access stdin", err)
		}
		if info.Mode()&os.ModeCharDevice != 0 {
			return jsonlite.Result{}, errors.NewInputError("no input provided", errors.ErrNoInput)
		}
	}

	data, err := io.ReadAll(e.stdin)
	if err != nil {
		return jsonlite.Result{}, errors.NewInputError("failed to read from stdin", err)
	}
	if len(data) == 0 {
		return jsonlite.Result{}, errors.NewInputError("empty input received from stdin", errors.ErrEmptyInput)
	}
	return parser.ParseString(string(data), opts)
}

func renderValue(v jsonlite.Value, indent int) string {
	switch v.Kind() {
	case jsonlite.KindObject:
		obj, _ := v.AsObject()
		return obj.Render(indent)
	case jsonlite.KindArray:
		arr, _ := v.AsArray()
		return arr.Render(indent)
	default:
		return v.Raw()
	}
}

// writeOutput writes text to a file, or stdout when path is empty
func writeOutput(e *env, path, text string) error {
	if path != "" {
		if err := os.WriteFile(path, []byte(text+"\n"), 0o644); err != nil {
			return errors.NewOutputError(fmt.Sprintf("failed to write to file '%s'", path), err)
		}
		fmt.Fprintf(e.stderr, "Output written to %s\n", path)
		return nil
	}

	if _, err := fmt.Fprintln(e.stdout, text); err != nil {
		return errors.NewOutputError("failed to write to stdout", err)
	}
	return nil
}

// ATMCmd groups the account commands
type ATMCmd struct {
	Open     ATMOpenCmd     `cmd:"" help:"Open a new account."`
	Deposit  ATMDepositCmd  `cmd:"" help:"Deposit money into an account."`
	Withdraw ATMWithdrawCmd `cmd:"" help:"Withdraw money from an account."`
	Transfer ATMTransferCmd `cmd:"" help:"Transfer money to another account."`
	Balance  ATMBalanceCmd  `cmd:"" help:"Show an account balance."`
	History  ATMHistoryCmd  `cmd:"" help:"Show an account's transaction history."`
	List     ATMListCmd     `cmd:"" help:"List all accounts."`
	Watch    ATMWatchCmd    `cmd:"" help:"Reload the data file whenever it changes until interrupted."`
}

// StoreFlags are shared by every atm command
type StoreFlags struct {
	DataFile string `help:"ATM data file. Overrides atm.data_file from the config." short:"f" name:"data-file" type:"path"`
}

// Credentials identify the account a command acts on
type Credentials struct {
	User string `help:"User ID, e.g. USER1234." short:"u" required:""`
	PIN  string `help:"Four digit PIN." name:"pin" required:""`
}

func (f StoreFlags) openStore(g *Globals, e *env) (*atm.Store, error) {
	cfg, err := g.load(e, config.Overrides{DataFile: f.DataFile})
	if err != nil {
		return nil, err
	}
	return atm.Open(cfg.ATM.DataFile,
		atm.WithIndent(cfg.DataFileIndent()),
		atm.WithStrict(cfg.Strict),
		atm.WithLogger(ctxlog.FromContext(e.ctx)),
	)
}

// ATMOpenCmd creates an account
type ATMOpenCmd struct {
	StoreFlags
	Name    string  `arg:"" help:"Account holder name."`
	Balance float64 `help:"Initial balance." default:"0"`
}

// Run executes the atm open command
func (c *ATMOpenCmd) Run(g *Globals, e *env) error {
	store, err := c.openStore(g, e)
	if err != nil {
		return err
	}
	a, err := store.CreateAccount(c.Name, c.Balance)
	if err != nil {
		return err
	}
	if err := store.Save(); err != nil {
		return err
	}
	fmt.Fprintf(e.stdout, "Account created for %s\nUser ID: %s\nPIN: %s\n", a.Name, a.UserID, a.PIN)
	return nil
}

// ATMDepositCmd deposits into an account
type ATMDepositCmd struct {
	StoreFlags
	Credentials
	Amount float64 `arg:"" help:"Amount to deposit."`
}

// Run executes the atm deposit command
func (c *ATMDepositCmd) Run(g *Globals, e *env) error {
	store, err := c.openStore(g, e)
	if err != nil {
		return err
	}
	a, err := store.Deposit(c.User, c.PIN, c.Amount)
	if err != nil {
		return err
	}
	if err := store.Save(); err != nil {
		return err
	}
	fmt.Fprintf(e.stdout, "Deposited $%.2f. New balance: $%.2f\n", c.Amount, a.Balance)
	return nil
}

// ATMWithdrawCmd withdraws from an account
type ATMWithdrawCmd struct {
	StoreFlags
	Credentials
	Amount float64 `arg:"" help:"Amount to withdraw."`
}

// Run executes the atm withdraw command
func (c *ATMWithdrawCmd) Run(g *Globals, e *env) error {
	store, err := c.openStore(g, e)
	if err != nil {
		return err
	}
	a, err := store.Withdraw(c.User, c.PIN, c.Amount)
	if err != nil {
		return err
	}
	if err := store.Save(); err != nil {
		return err
	}
	fmt.Fprintf(e.stdout, "Withdrew $%.2f. New balance: $%.2f\n", c.Amount, a.Balance)
	return nil
}

// ATMTransferCmd moves money between accounts
type ATMTransferCmd struct {
	StoreFlags
	Credentials
	To     string  `help:"Recipient user ID." required:""`
	Amount float64 `arg:"" help:"Amount to transfer."`
}

// Run executes the atm transfer command
func (c *ATMTransferCmd) Run(g *Globals, e *env) error {
	store, err := c.openStore(g, e)
	if err != nil {
		return err
	}
	a, err := store.Transfer(c.User, c.PIN, c.To, c.Amount)
	if err != nil {
		return err
	}
	if err := store.Save(); err != nil {
		return err
	}
	fmt.Fprintf(e.stdout, "Transferred $%.2f to %s. New balance: $%.2f\n", c.Amount, c.To, a.Balance)
	return nil
}

// ATMBalanceCmd shows a balance
type ATMBalanceCmd struct {
	StoreFlags
	Credentials
}

// Run executes the atm balance command
func (c *ATMBalanceCmd) Run(g *Globals, e *env) error {
	store, err := c.openStore(g, e)
	if err != nil {
		return err
	}
	a, err := store.Authenticate(c.User, c.PIN)
	if err != nil {
		return err
	}
	fmt.Fprintf(e.stdout, "Balance: $%.2f\n", a.Balance)
	return nil
}

// ATMHistoryCmd shows the transaction history
type ATMHistoryCmd struct {
	StoreFlags
	Credentials
}

// Run executes the atm history command
func (c *ATMHistoryCmd) Run(g *Globals, e *env) error {
	store, err := c.openStore(g, e)
	if err != nil {
		return err
	}
	a, err := store.Authenticate(c.User, c.PIN)
	if err != nil {
		return err
	}
	if len(a.History) == 0 {
		fmt.Fprintln(e.stdout, "No transactions yet.")
		return nil
	}
	for _, line := range a.History {
		fmt.Fprintln(e.stdout, line)
	}
	return nil
}

// ATMListCmd lists accounts
type ATMListCmd struct {
	StoreFlags
}

// Run executes the atm list command
func (c *ATMListCmd) Run(g *Globals, e *env) error {
	store, err := c.openStore(g, e)
	if err != nil {
		return err
	}
	for _, a := range store.Accounts() {
		fmt.Fprintf(e.stdout, "%s\t%s\t$%.2f\n", a.UserID, a.Name, a.Balance)
	}
	return nil
}

// ATMWatchCmd keeps the data file loaded and reports external changes
type ATMWatchCmd struct {
	StoreFlags
}

// Run executes the atm watch command
func (c *ATMWatchCmd) Run(g *Globals, e *env) error {
	store, err := c.openStore(g, e)
	if err != nil {
		return err
	}
	fmt.Fprintf(e.stdout, "Watching %s (%d accounts). Press Ctrl+C to stop.\n", store.Path(), store.Len())

	return store.Watch(e.ctx, func(accounts int) {
		fmt.Fprintf(e.stdout, "Reloaded %s: %d accounts\n", store.Path(), accounts)
	})
}
