package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"carbcheck/cmd/carbcheck/tui"
	"carbcheck/cmd/carbcheck/ui"
	"carbcheck/internal/account"
	"carbcheck/internal/assist"
	"carbcheck/internal/config"
	"carbcheck/internal/deeplink"
	"carbcheck/internal/kv"
	"carbcheck/internal/leads"
	"carbcheck/internal/locator"
	"carbcheck/internal/platform"
	"carbcheck/internal/region"
	"carbcheck/internal/toolkit"
	"carbcheck/internal/vin"
)

const version = "1.0.0"

var (
	// Global flags
	verbose    bool
	configPath string
	noBrowser  bool

	// Logger
	logger *zap.Logger
)

// app bundles the wired collaborators shared by all subcommands.
type app struct {
	cfg      *config.Config
	accounts *account.Store
	leads    *leads.Store
	assist   assist.Service
	opener   platform.Opener
}

func buildApp(ctx context.Context) (*app, error) {
	path := configPath
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	surface := kv.OpenFile(cfg.GetDataFile())
	a := &app{
		cfg:      cfg,
		accounts: account.NewStore(surface),
		leads:    leads.NewStore(surface),
		opener:   platform.SystemOpener{},
	}
	if noBrowser {
		a.opener = &platform.Noop{}
	}

	if key := cfg.GetGeminiAPIKey(); key != "" {
		svc, err := assist.NewGemini(ctx, key, cfg.Model)
		if err != nil {
			return nil, fmt.Errorf("gemini client: %w", err)
		}
		a.assist = svc
	}
	return a, nil
}

var rootCmd = &cobra.Command{
	Use:   "carbcheck",
	Short: "Mobile Carb Check - CARB Clean Truck Check, from your terminal",
	Long: `Mobile Carb Check helps California heavy-duty diesel operators stay
compliant with the CARB Clean Truck Check program.

Check any VIN against the official state lookup, keep a local check
history, and get a certified mobile smoke tester dispatched to your yard
when a vehicle comes back blocked.

Run without arguments to start the interactive app.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Interactive mode has its own UI; no logger there.
		if cmd.Use == "carbcheck" && cmd.CalledAs() == "carbcheck" {
			return nil
		}
		cfg := zap.NewProductionConfig()
		if verbose {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = cfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInteractive(cmd.Context())
	},
}

func runInteractive(ctx context.Context) error {
	a, err := buildApp(ctx)
	if err != nil {
		return err
	}
	styles := ui.NewStyles(ui.ThemeByName(a.cfg.GetTheme()))
	m := tui.New(tui.Options{
		Config:    a.cfg,
		Accounts:  a.accounts,
		Leads:     a.leads,
		Assist:    a.assist,
		Opener:    a.opener,
		Clipboard: platform.SystemClipboard{},
		Styles:    styles,
	})
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}

// checkCmd validates a VIN, records it for the signed-in user, and opens
// the official state lookup.
var checkCmd = &cobra.Command{
	Use:   "check [vin]",
	Short: "Check a VIN against the CARB Clean Truck Check lookup",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp(cmd.Context())
		if err != nil {
			return err
		}
		normalized := vin.Normalize(args[0])
		if err := vin.Validate(normalized); err != nil {
			return err
		}

		email := ""
		if u := a.accounts.RestoreSession(); u != nil {
			email = u.Email
		}
		if _, err := a.accounts.AppendHistory(email, normalized, account.LookupVIN); err != nil {
			return fmt.Errorf("record check: %w", err)
		}
		if email != "" {
			logger.Info("check recorded", zap.String("vin", normalized), zap.String("user", email))
		}

		url := vin.LookupURL(normalized)
		fmt.Println(url)
		if err := a.opener.Open(url); err != nil {
			logger.Warn("browser did not open", zap.Error(err))
		}
		return nil
	},
}

var registerCmd = &cobra.Command{
	Use:   "register [email]",
	Short: "Create a local account and sign in",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp(cmd.Context())
		if err != nil {
			return err
		}
		user, err := a.accounts.Register(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Signed in as %s. Checks are now saved to your history.\n", user.Email)
		return nil
	},
}

var loginCmd = &cobra.Command{
	Use:   "login [email]",
	Short: "Sign in to an existing account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp(cmd.Context())
		if err != nil {
			return err
		}
		user, err := a.accounts.Login(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Welcome back, %s.\n", user.Email)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out of the current account",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp(cmd.Context())
		if err != nil {
			return err
		}
		if err := a.accounts.Logout(); err != nil {
			return err
		}
		fmt.Println("Signed out. Your history stays on this device.")
		return nil
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the signed-in user's check history",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp(cmd.Context())
		if err != nil {
			return err
		}
		user := a.accounts.RestoreSession()
		if user == nil {
			return fmt.Errorf("not signed in; run carbcheck login first")
		}
		if len(user.History) == 0 {
			fmt.Println("No checks yet.")
			return nil
		}
		for _, item := range user.History {
			when := time.UnixMilli(item.Timestamp).Format("2006-01-02 15:04")
			fmt.Printf("%s  %-7s %s\n", when, item.Type, item.Value)
		}
		return nil
	},
}

var (
	locateName  string
	locatePhone string
	locateZip   string
	locateDate  string
	locateTime  string
	locateNotes string
	locateEmail bool
)

// locateCmd drafts a mobile-tester request and opens the SMS or email
// composer addressed to the dispatch team.
var locateCmd = &cobra.Command{
	Use:   "locate",
	Short: "Request a certified mobile tester at your yard",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp(cmd.Context())
		if err != nil {
			return err
		}
		req := locator.Request{
			Name:        locateName,
			Phone:       locatePhone,
			Zip:         locateZip,
			VehicleType: locator.DefaultVehicleType,
			Date:        locateDate,
			Time:        locateTime,
			Notes:       locateNotes,
			WantAppLink: true,
		}
		var uri string
		if locateEmail {
			uri, err = req.EmailLink()
		} else {
			uri, err = req.SMSLink()
		}
		if err != nil {
			return err
		}
		fmt.Printf("Routing to the %s team.\n", req.Region())
		if err := a.opener.Open(uri); err != nil {
			logger.Warn("composer did not open", zap.Error(err))
			fmt.Println(uri)
		}
		return nil
	},
}

var opacityDPF bool

// opacityCmd prints the legal smoke opacity limit for an engine year.
var opacityCmd = &cobra.Command{
	Use:   "opacity [engine-year]",
	Short: "Show the maximum legal smoke opacity for an engine year",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		year, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("engine year must be a number: %q", args[0])
		}
		fmt.Printf("%d%%\n", toolkit.OpacityLimit(year, opacityDPF))
		return nil
	},
}

var regionCmd = &cobra.Command{
	Use:   "region [zip]",
	Short: "Show which service team covers a California zip code",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(region.Lookup(args[0]))
		return nil
	},
}

// scoutCmd analyzes a photo of a truck or yard and captures a sales lead.
var scoutCmd = &cobra.Command{
	Use:   "scout [image]",
	Short: "Capture a sales lead from a photo (internal)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp(cmd.Context())
		if err != nil {
			return err
		}
		if a.assist == nil {
			return fmt.Errorf("set GEMINI_API_KEY to use scouting")
		}
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		mimeType := "image/jpeg"
		if strings.HasSuffix(strings.ToLower(args[0]), ".png") {
			mimeType = "image/png"
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
		defer cancel()
		lead, err := a.assist.ScoutLead(ctx, data, mimeType)
		if err != nil {
			return err
		}
		stored, err := a.leads.Add(lead)
		if err != nil {
			return err
		}
		logger.Info("lead captured",
			zap.String("company", stored.Company),
			zap.String("location", stored.Location))
		fmt.Printf("%s (%s) - %s\n", stored.Company, stored.Industry, stored.Location)
		if stored.Phone != "" {
			fmt.Println(stored.Phone)
		}
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show configuration and session status",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("carbcheck %s\n", version)
		fmt.Printf("Data file:  %s\n", a.cfg.GetDataFile())
		fmt.Printf("Theme:      %s\n", a.cfg.GetTheme())
		if a.assist != nil {
			fmt.Println("Assistant:  configured")
		} else {
			fmt.Println("Assistant:  not configured (set GEMINI_API_KEY)")
		}
		if u := a.accounts.RestoreSession(); u != nil {
			fmt.Printf("Signed in:  %s (%d checks)\n", u.Email, len(u.History))
		} else {
			fmt.Println("Signed in:  no")
		}
		fmt.Printf("Support:    %s / %s\n", deeplink.SupportPhone, deeplink.SupportEmail)
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("carbcheck %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: ~/.carbcheck/config.json)")
	rootCmd.PersistentFlags().BoolVar(&noBrowser, "no-browser", false, "Print URLs instead of opening them")

	locateCmd.Flags().StringVar(&locateName, "name", "", "Contact name (required)")
	locateCmd.Flags().StringVar(&locatePhone, "phone", "", "Callback phone (required)")
	locateCmd.Flags().StringVar(&locateZip, "zip", "", "Yard zip code")
	locateCmd.Flags().StringVar(&locateDate, "date", "", "Requested date")
	locateCmd.Flags().StringVar(&locateTime, "time", "", "Requested time")
	locateCmd.Flags().StringVar(&locateNotes, "notes", "", "Anything the tester should know")
	locateCmd.Flags().BoolVar(&locateEmail, "email", false, "Draft an email instead of a text")
	locateCmd.MarkFlagRequired("name")
	locateCmd.MarkFlagRequired("phone")

	opacityCmd.Flags().BoolVar(&opacityDPF, "dpf", false, "Vehicle has a DPF retrofit")

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(locateCmd)
	rootCmd.AddCommand(opacityCmd)
	rootCmd.AddCommand(regionCmd)
	rootCmd.AddCommand(scoutCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
