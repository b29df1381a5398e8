// Package cli реализует команды клиента prefkeeper поверх cobra.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/iudanet/prefkeeper/internal/client/iocli"
	"github.com/iudanet/prefkeeper/internal/config"
	"github.com/iudanet/prefkeeper/internal/logging"
	"github.com/iudanet/prefkeeper/internal/validation"
)

// PassphraseEnv переменная окружения с парольной фразой
const PassphraseEnv = "PREFKEEPER_PASSPHRASE"

var (
	// ErrKeyNotFound настройка отсутствует или удалена
	ErrKeyNotFound = errors.New("preference not found")

	// ErrEmptyPassphrase парольная фраза пустая
	ErrEmptyPassphrase = validation.ErrEmptyPassphrase
)

// Cli команды клиента. Окружение открывается лениво, при первой
// команде, которой оно нужно, и закрывается после Execute.
type Cli struct {
	io             iocli.IO
	open           Opener
	env            *Env
	logOut         io.Writer
	version        string
	configPath     string
	passphraseFile string
}

// New создает CLI. open обычно OpenEnv.
func New(io iocli.IO, open Opener, version string) *Cli {
	return &Cli{
		io:      io,
		open:    open,
		version: version,
		logOut:  os.Stderr,
	}
}

// Execute разбирает args и выполняет команду
func (c *Cli) Execute(ctx context.Context, args []string) error {
	root := c.Command()
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if closeErr := c.close(); closeErr != nil && err == nil {
		err = closeErr
	}
	return err
}

// Command строит дерево команд
func (c *Cli) Command() *cobra.Command {
	root := &cobra.Command{
		Use:           "prefkeeper",
		Short:         "Replicated preferences that sync through a hub",
		Version:       c.version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.CompletionOptions.DisableDefaultCmd = true

	flags := root.PersistentFlags()
	flags.StringVarP(&c.configPath, "config", "c", "", "Path to YAML config file")
	flags.StringVar(&c.passphraseFile, "passphrase-file", "", "File containing the encryption passphrase")
	flags.String("server", "", "Hub URL (default http://localhost:8080)")
	flags.String("db", "", "Path to local database (default prefkeeper-client.db)")
	flags.String("document", "", "Preferences document (default preferences)")
	flags.Bool("encrypt", false, "Encrypt local snapshots with a passphrase")
	flags.Duration("timeout", 0, "HTTP request timeout (default 30s)")
	flags.Uint64("max-retries", 0, "Retries of failed hub requests (default 3)")
	flags.String("log-level", "", "Log level: debug, info, warn, error")
	flags.String("log-format", "", "Log format: text or json")
	flags.String("compression", "", "Wire compression: none or zstd")

	root.AddCommand(
		c.getCommand(),
		c.setCommand(),
		c.deleteCommand(),
		c.listCommand(),
		c.clearCommand(),
		c.tagCommand(),
		c.counterCommand(),
		c.registerCommand(),
		c.documentsCommand(),
		c.syncCommand(),
		c.statusCommand(),
		c.inspectCommand(),
	)
	return root
}

// environment открывает окружение по конфигурации и флагам команды
func (c *Cli) environment(cmd *cobra.Command) (*Env, error) {
	if c.env != nil {
		return c.env, nil
	}

	cfg, err := config.LoadClient(c.configPath, cmd.Flags())
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(c.logOut, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, err
	}

	env, err := c.open(cmd.Context(), cfg, logger, c.readPassphrase)
	if err != nil {
		return nil, err
	}
	c.env = env
	return env, nil
}

func (c *Cli) close() error {
	if c.env == nil {
		return nil
	}
	err := c.env.Close()
	c.env = nil
	return err
}

// readPassphrase получает парольную фразу в порядке приоритета:
// 1. Переменная окружения PREFKEEPER_PASSPHRASE
// 2. Файл из --passphrase-file
// 3. Интерактивный ввод
func (c *Cli) readPassphrase() (string, error) {
	passphrase, err := c.rawPassphrase()
	if err != nil {
		return "", err
	}
	if err := validation.ValidatePassphrase(passphrase); err != nil {
		return "", err
	}
	return passphrase, nil
}

func (c *Cli) rawPassphrase() (string, error) {
	if env := os.Getenv(PassphraseEnv); env != "" {
		return env, nil
	}

	if c.passphraseFile != "" {
		content, err := os.ReadFile(c.passphraseFile)
		if err != nil {
			return "", fmt.Errorf("failed to read passphrase file: %w", err)
		}
		// Убираем trailing newline/whitespace
		return strings.TrimSpace(string(content)), nil
	}

	return c.io.ReadPassword("Passphrase: ")
}
