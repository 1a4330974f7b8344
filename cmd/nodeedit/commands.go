package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/nodeedit/internal/config"
	"github.com/muurk/nodeedit/internal/form"
	"github.com/muurk/nodeedit/internal/graph"
	"github.com/muurk/nodeedit/internal/logging"
	"github.com/muurk/nodeedit/internal/query"
	"github.com/muurk/nodeedit/internal/tui"
	"github.com/muurk/nodeedit/internal/ui"
)

// Connection and output flags
var (
	profileName  string
	uriFlag      string
	userFlag     string
	databaseFlag string
	labelFlag    string
	queryFlag    string
	limitFlag    int
	outputFormat string
	logLevel     string
	assumeYes    bool
)

func init() {
	// Common flags (persistent on root)
	rootCmd.PersistentFlags().StringVarP(&profileName, "profile", "p", "", "Connection profile (defaults to the current profile)")
	rootCmd.PersistentFlags().StringVar(&uriFlag, "uri", "", "Neo4j URI, e.g. neo4j://localhost:7687 (overrides profile)")
	rootCmd.PersistentFlags().StringVarP(&userFlag, "user", "u", "", "Username (overrides profile, default neo4j)")
	rootCmd.PersistentFlags().StringVarP(&databaseFlag, "database", "d", "", "Database name (overrides profile)")
	rootCmd.PersistentFlags().StringVarP(&labelFlag, "label", "l", "", "Load every node with this label")
	rootCmd.PersistentFlags().StringVarP(&queryFlag, "query", "q", "", "Custom Cypher query returning nodes (wins over --label)")
	rootCmd.PersistentFlags().IntVar(&limitFlag, "limit", 0, "Maximum nodes loaded by label")
	rootCmd.PersistentFlags().StringVar(&outputFormat, "format", ui.FormatTable, "Output format (table, json, yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); logs go to the log file")

	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(suggestCmd)
	rootCmd.AddCommand(setCmd)
}

// session is an open database connection plus what to load from it.
type session struct {
	profile  *config.Profile
	prefs    config.Preferences
	executor *query.Neo4jExecutor
	service  *query.Service
	spec     query.LoadSpec
}

func (s *session) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), s.prefs.Timeout())
	defer cancel()
	if err := s.executor.Close(ctx); err != nil {
		logging.Warn("Failed to close driver", zap.Error(err))
	}
}

// source names what the session loads, for headers.
func (s *session) source() string {
	if s.spec.Cypher != "" {
		return "custom query"
	}
	return ":" + s.spec.Label
}

func (s *session) params() map[string]string {
	params := map[string]string{
		"Server": s.profile.URI,
		"User":   s.profile.Username,
		"Source": s.source(),
	}
	if s.profile.Database != "" {
		params["Database"] = s.profile.Database
	}
	return params
}

// resolveProfile returns the selected profile with flag overrides applied.
// Without a stored profile, --uri alone is enough.
func resolveProfile(reg *config.Registry) (*config.Profile, error) {
	name, stored, err := reg.GetProfile(profileName)
	var p config.Profile
	switch {
	case err == nil:
		p = *stored
	case errors.Is(err, config.ErrUnknownProfile) && profileName == "" && uriFlag != "":
	case errors.Is(err, config.ErrUnknownProfile) && profileName == "":
		return nil, fmt.Errorf("no profile configured: run 'nodeedit profile add' or pass --uri")
	default:
		return nil, err
	}
	logging.Debug("Resolved profile", zap.String("profile", name), zap.Bool("stored", stored != nil))

	if uriFlag != "" {
		p.URI = uriFlag
	}
	if userFlag != "" {
		p.Username = userFlag
	}
	if databaseFlag != "" {
		p.Database = databaseFlag
	}
	if labelFlag != "" {
		p.Label = labelFlag
		p.Query = ""
	}
	if queryFlag != "" {
		p.Query = queryFlag
	}
	if limitFlag > 0 {
		p.Limit = limitFlag
	}
	if p.Username == "" {
		p.Username = "neo4j"
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// openSession connects to the database of the selected profile. The caller
// must Close the session.
func openSession(cmd *cobra.Command) (*session, error) {
	reg, err := config.LoadRegistry()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	profile, err := resolveProfile(reg)
	if err != nil {
		return nil, err
	}

	password, err := config.Password(profile.Username, cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}

	executor, err := query.NewNeo4jExecutor(query.ConnectionSettings{
		URI:      profile.URI,
		Username: profile.Username,
		Password: password,
		Database: profile.Database,
	})
	if err != nil {
		return nil, err
	}

	prefs := reg.Prefs()
	ctx, cancel := context.WithTimeout(cmd.Context(), prefs.Timeout())
	defer cancel()
	if err := executor.Verify(ctx); err != nil {
		_ = executor.Close(context.Background())
		return nil, err
	}
	logging.Info("Connected", zap.String("uri", profile.URI), zap.String("database", profile.Database))

	return &session{
		profile:  profile,
		prefs:    prefs,
		executor: executor,
		service: query.NewService(executor, query.Options{
			Timeout:  prefs.Timeout(),
			CacheTTL: prefs.SuggestionTTL(),
			UseAPOC:  profile.APOC,
		}),
		spec: query.LoadSpec{
			Label:  profile.Label,
			Cypher: profile.Query,
			Limit:  profile.EffectiveLimit(),
		},
	}, nil
}

// requireSource fails early when neither a label nor a query is set.
func (s *session) requireSource() error {
	if _, _, err := s.spec.Build(); err != nil {
		return fmt.Errorf("%w (use --label or --query, or set them on the profile)", err)
	}
	return nil
}

// reportError prints err in a failure box and returns it for the exit code.
func reportError(p *ui.Printer, title string, err error) error {
	if outputFormat == ui.FormatTable {
		p.PrintError(title, err, ui.Troubleshooting(query.Hint(err)))
	}
	return err
}

// editCmd launches the interactive editor
var editCmd = &cobra.Command{
	Use:   "edit",
	Short: "Launch the interactive node editor",
	Long: `Launch the full-screen editor.

The left pane lists the loaded nodes in a paginated table that can be
sorted, filtered and resized. Selecting a row opens its properties in the
form on the right, with option lists built from the values seen on nodes
with the same labels. Saving asks for confirmation before the update is
sent.`,
	Example: `  # Edit every :Person node using the current profile
  nodeedit edit --label Person
  # Or simply (edit is default):
  nodeedit --label Person

  # Edit the result of a custom query
  nodeedit --query "MATCH (n:Person) WHERE n.age > 30 RETURN n"`,
	RunE: runEdit,
}

func runEdit(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()
	if err := s.requireSource(); err != nil {
		return err
	}

	model := tui.NewAppModel(s.service, tui.Options{
		Source:          s.profile.URI + " " + s.source(),
		Spec:            s.spec,
		PageSize:        s.prefs.PageSize,
		NotificationTTL: s.prefs.NotificationTTL(),
	})

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running editor: %w", err)
	}
	return nil
}

// showCmd prints the loaded nodes
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the loaded nodes",
	Long: `Load nodes by label or custom query and print them.

The table format lists one row per node with every property key as a
column. The json and yaml formats print element ID, labels and properties
for scripting.`,
	Example: `  # Table of :Person nodes
  nodeedit show --label Person

  # JSON output for scripting
  nodeedit show --label Person --format json`,
	RunE: runShow,
}

func runShow(cmd *cobra.Command, args []string) error {
	printer := ui.NewPrinter(cmd.OutOrStdout())

	s, err := openSession(cmd)
	if err != nil {
		return reportError(printer, "Connection failed", err)
	}
	defer s.Close()
	if err := s.requireSource(); err != nil {
		return err
	}

	records, err := s.service.LoadRecords(cmd.Context(), s.spec)
	if err != nil {
		return reportError(printer, "Load failed", err)
	}

	if outputFormat != ui.FormatTable {
		return printer.Encode(outputFormat, ui.Documents(records.All()))
	}
	printer.PrintHeader("Show nodes", cmd.CommandPath(), s.params())
	printer.PrintRecords(records.All())
	return nil
}

// suggestCmd prints the value suggestions for one node
var suggestCmd = &cobra.Command{
	Use:   "suggest <element-id>",
	Short: "Print suggested values for a node's properties",
	Long: `Print, per property key, the distinct values seen on nodes that carry
all of the given node's labels. These are the options the editor offers.`,
	Example: `  nodeedit suggest 4:6b1c9f2e-0d1a-4a8e-9d3e-2f4b7c1e5a10:12`,
	Args:    cobra.ExactArgs(1),
	RunE:    runSuggest,
}

func runSuggest(cmd *cobra.Command, args []string) error {
	printer := ui.NewPrinter(cmd.OutOrStdout())

	s, err := openSession(cmd)
	if err != nil {
		return reportError(printer, "Connection failed", err)
	}
	defer s.Close()

	rec, err := s.service.Node(cmd.Context(), args[0])
	if err != nil {
		return reportError(printer, "Node lookup failed", err)
	}
	suggestions, err := s.service.Suggestions(cmd.Context(), *rec)
	if err != nil {
		return reportError(printer, "Suggestions failed", err)
	}

	if outputFormat != ui.FormatTable {
		return printer.Encode(outputFormat, suggestionDocument(suggestions))
	}
	params := s.params()
	params["Source"] = args[0]
	params["Labels"] = strings.Join(rec.Labels, ", ")
	printer.PrintHeader("Suggestions", cmd.CommandPath(), params)
	printer.PrintSuggestions(suggestions)
	return nil
}

// suggestionDocument renders suggestion values as display strings so driver
// types encode predictably.
func suggestionDocument(s graph.Suggestions) map[string][]string {
	doc := make(map[string][]string, len(s))
	for key, values := range s {
		out := make([]string, len(values))
		for i, v := range values {
			out[i] = graph.FormatValue(v)
		}
		doc[key] = out
	}
	return doc
}

// setCmd updates properties of one node
var setCmd = &cobra.Command{
	Use:   "set <element-id> <key=value>...",
	Short: "Update properties of a node",
	Long: `Update one or more properties of a node without the editor.

Values are parsed according to the current type of the property:
  - booleans: true/false
  - dates: YYYY-MM-DD
  - points: x,y (point lists: x,y;x,y with the same number of points)
  - other values are stored as text

Only existing properties can be set. The changes are shown and must be
confirmed unless --yes is given.`,
	Example: `  # Rename a node
  nodeedit set 4:6b1c...:12 name=Alicia

  # Several properties at once, without confirmation
  nodeedit set 4:6b1c...:12 active=false born=1983-04-02 --yes`,
	Args: cobra.MinimumNArgs(2),
	RunE: runSet,
}

func init() {
	setCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Skip the confirmation prompt")
}

// parseAssignments splits key=value arguments. Later keys win.
func parseAssignments(args []string) ([][2]string, error) {
	out := make([][2]string, 0, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || strings.TrimSpace(key) == "" {
			return nil, fmt.Errorf("invalid assignment %q (expected key=value)", arg)
		}
		out = append(out, [2]string{strings.TrimSpace(key), value})
	}
	return out, nil
}

func runSet(cmd *cobra.Command, args []string) error {
	printer := ui.NewPrinter(cmd.OutOrStdout())

	elementID := args[0]
	assignments, err := parseAssignments(args[1:])
	if err != nil {
		return err
	}

	s, err := openSession(cmd)
	if err != nil {
		return reportError(printer, "Connection failed", err)
	}
	defer s.Close()

	rec, err := s.service.Node(cmd.Context(), elementID)
	if err != nil {
		return reportError(printer, "Node lookup failed", err)
	}
	suggestions, err := s.service.Suggestions(cmd.Context(), *rec)
	if err != nil {
		// The form works without options; values are still parsed by kind.
		logging.Warn("Suggestions unavailable", zap.String("element_id", elementID), zap.Error(err))
	}

	f := form.New(rec, suggestions)
	for _, a := range assignments {
		if err := f.Apply(a[0], a[1]); err != nil {
			return fmt.Errorf("%s: %w", a[0], err)
		}
	}
	draft := f.Draft()

	changed := graph.ChangedKeys(rec.Props, draft)
	if len(changed) == 0 {
		printer.Println(ui.MutedStyle.Render("No values changed."))
		return nil
	}

	if !assumeYes && !ui.ConfirmUpdate(cmd.InOrStdin(), cmd.OutOrStdout(), elementID, rec.Props, draft) {
		return nil
	}

	updated, err := s.service.Update(cmd.Context(), elementID, draft)
	logging.LogSubmission(uuid.NewString(), elementID, "update", len(changed), err)
	if err != nil {
		return reportError(printer, "Update failed", err)
	}

	if outputFormat != ui.FormatTable {
		return printer.Encode(outputFormat, ui.Documents([]graph.Record{*updated}))
	}
	printer.PrintSuccess("Node updated",
		ui.Detail{Key: "Element ID", Value: updated.ElementID},
		ui.Detail{Key: "Changed", Value: strings.Join(changed, ", ")},
	)
	return nil
}
