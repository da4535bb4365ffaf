package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/obratrack/obratrack/internal/app"
	"github.com/obratrack/obratrack/internal/evidence"
	"github.com/obratrack/obratrack/internal/identity"
	"github.com/obratrack/obratrack/internal/model"
	"github.com/obratrack/obratrack/internal/store"
	"github.com/obratrack/obratrack/internal/watch"
)

var rootCmd = &cobra.Command{
	Use:   "obratrack",
	Short: "Checklist tracking and sign-off for construction sites",
	Long: `ObraTrack keeps site inspection checklists: items get completed with
evidence, progress is tracked, and a finished checklist is locked by the
responsible party's sign-off.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI()
	},
}

var sitesCmd = &cobra.Command{
	Use:   "sites",
	Short: "Manage construction sites",
}

var sitesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List sites",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, _, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		includeInactive, _ := cmd.Flags().GetBool("all")
		sites, err := s.GetSites(cmd.Context(), includeInactive)
		if err != nil {
			return err
		}
		for _, site := range sites {
			marker := " "
			if !site.Active {
				marker = "×"
			}
			fmt.Printf("%s %-36s  %s\n", marker, site.ID, site.Name)
		}
		return nil
	},
}

var sitesAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a site",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, _, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		address, _ := cmd.Flags().GetString("address")
		site := model.Site{Name: args[0], Address: address, Active: true}
		if err := s.CreateSite(cmd.Context(), &site); err != nil {
			return err
		}
		fmt.Printf("created site %s (%s)\n", site.Name, site.ID)
		return nil
	},
}

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "Manage checklist templates",
}

var templatesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List templates and their item counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, _, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		templates, err := s.GetTemplates(cmd.Context())
		if err != nil {
			return err
		}
		for _, t := range templates {
			fmt.Printf("%-36s  %-24s %-12s %d items\n", t.ID, t.Name, t.Category, len(t.Items))
		}
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := model.DefaultConfigPath()
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists at %s", path)
		}
		cfg, err := model.LoadConfig(path)
		if err != nil {
			return err
		}
		if err := model.SaveConfig(path, cfg); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", path)
		return nil
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the config file",
}

var signerCmd = &cobra.Command{
	Use:   "signer",
	Short: "Manage the stored signer identity",
}

var signerSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Store the signer identity in the system keyring",
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		email, _ := cmd.Flags().GetString("email")
		role, _ := cmd.Flags().GetString("role")
		if name == "" || email == "" {
			return fmt.Errorf("--name and --email are required")
		}

		provider := identity.NewKeyringProvider(model.SignerConfig{})
		if err := provider.Save(model.Actor{Name: name, Email: email, Role: role}); err != nil {
			return err
		}
		fmt.Printf("stored signer %s <%s>\n", name, email)
		return nil
	},
}

var signerShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the resolved signer identity",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := model.LoadConfig(model.DefaultConfigPath())
		if err != nil {
			return err
		}
		provider := identity.NewKeyringProvider(cfg.Signer)
		actor, err := provider.Current()
		if err != nil {
			return err
		}
		fmt.Printf("%s <%s> %s\n", actor.Name, actor.Email, actor.Role)
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample sites, people, and templates",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, _, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()
		return seed(cmd, s)
	},
}

func init() {
	sitesListCmd.Flags().Bool("all", false, "include inactive sites")
	sitesAddCmd.Flags().String("address", "", "site address")

	signerSetCmd.Flags().String("name", "", "signer full name")
	signerSetCmd.Flags().String("email", "", "signer e-mail")
	signerSetCmd.Flags().String("role", "", "signer role")

	sitesCmd.AddCommand(sitesListCmd)
	sitesCmd.AddCommand(sitesAddCmd)
	templatesCmd.AddCommand(templatesListCmd)
	configCmd.AddCommand(configInitCmd)
	signerCmd.AddCommand(signerSetCmd)
	signerCmd.AddCommand(signerShowCmd)

	rootCmd.AddCommand(sitesCmd)
	rootCmd.AddCommand(templatesCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(signerCmd)
	rootCmd.AddCommand(seedCmd)
}

// openStore loads the config and opens the SQLite store, creating the
// data directory on first run.
func openStore() (*store.SQLiteStore, *model.AppConfig, error) {
	cfg, err := model.LoadConfig(model.DefaultConfigPath())
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Storage.DBPath), 0o755); err != nil {
		return nil, nil, fmt.Errorf("creating data directory: %w", err)
	}

	s, err := store.NewSQLiteStore(cfg.Storage.DBPath)
	if err != nil {
		return nil, nil, err
	}
	return s, cfg, nil
}

// runTUI opens the store and evidence vault, resolves the signer
// identity, and starts the Bubble Tea program with the due-date watcher
// running in the background.
func runTUI() error {
	s, cfg, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	vault, err := evidence.NewVault(cfg.Storage.EvidenceDir)
	if err != nil {
		return err
	}

	provider := identity.NewKeyringProvider(cfg.Signer)
	actor, err := provider.Current()
	if err != nil {
		return fmt.Errorf("resolving signer identity (set signer in %s): %w",
			model.DefaultConfigPath(), err)
	}

	logger, closeLog, err := openLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	watcher := watch.New(s,
		time.Duration(cfg.Watch.IntervalSec)*time.Second,
		time.Duration(cfg.Watch.DueSoonHours)*time.Hour,
		logger,
	)

	p := tea.NewProgram(app.New(s, vault, actor, watcher), tea.WithAltScreen())
	_, err = p.Run()
	return err
}

// openLogger writes structured logs next to the database; the terminal
// belongs to the TUI.
func openLogger(cfg *model.AppConfig) (*slog.Logger, func(), error) {
	logPath := filepath.Join(filepath.Dir(cfg.Storage.DBPath), "obratrack.log")
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(f, nil))
	return logger, func() { f.Close() }, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
