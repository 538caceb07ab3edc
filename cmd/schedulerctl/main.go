// SPDX-FileCopyrightText: 2025 shiftforge authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
)

var (
	Version   = "dev"
	BuildTime = ""
	Commit    = ""

	addr       string
	outputFmt  string
	httpClient *rpcClient

	rootCmd = &cobra.Command{
		Use:     "schedulerctl",
		Short:   "operator CLI for schedulerd",
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			httpClient = newRPCClient(addr)
			return nil
		},
	}
)

func init() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildTime)
	rootCmd.PersistentFlags().StringVar(&addr, "addr", "http://127.0.0.1:8080", "schedulerd base URL")
	rootCmd.PersistentFlags().StringVarP(&outputFmt, "output", "o", "table", "table or json")

	rootCmd.AddCommand(usersCmd, tasksCmd, slotsCmd, scheduleCmd, statusCmd, quitCmd, watchCmd, versionCmd, genDocsCmd)

	usersCmd.AddCommand(usersListCmd, usersAddCmd, usersPopCmd)
	tasksCmd.AddCommand(tasksListCmd, tasksAddCmd, tasksPopCmd)
	slotsCmd.AddCommand(slotsListCmd, slotsAddCmd, slotsPopCmd)
}

func printResult(v any) {
	if outputFmt == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.Encode(v)
		return
	}
	data, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(data))
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}

// --- users ---

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "manage Users",
}

var usersNamePrefix string

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "list Users (get_users)",
	RunE: func(cmd *cobra.Command, args []string) error {
		req := map[string]any{}
		if usersNamePrefix != "" {
			req["name_pat"] = map[string]string{"starts_with": usersNamePrefix}
		}
		var out map[string]any
		if err := httpClient.call(cmd.Context(), "get_users", req, &out); err != nil {
			return err
		}
		printResult(out)
		return nil
	},
}

var usersAddNames []string

var usersAddCmd = &cobra.Command{
	Use:   "add",
	Short: "add Users (add_users)",
	RunE: func(cmd *cobra.Command, args []string) error {
		type userSpec struct {
			Name string `json:"Name"`
		}
		specs := make([]userSpec, 0, len(usersAddNames))
		for _, n := range usersAddNames {
			specs = append(specs, userSpec{Name: n})
		}
		var out []uint64
		if err := httpClient.call(cmd.Context(), "add_users", specs, &out); err != nil {
			return err
		}
		printResult(out)
		return nil
	},
}

var usersPopIDs []string

var usersPopCmd = &cobra.Command{
	Use:   "pop",
	Short: "remove Users by ID (pop_users)",
	RunE: func(cmd *cobra.Command, args []string) error {
		req := idSet(usersPopIDs)
		var out map[string]bool
		if err := httpClient.call(cmd.Context(), "pop_users", req, &out); err != nil {
			return err
		}
		printResult(out)
		return nil
	},
}

// --- tasks ---

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "manage Tasks",
}

var tasksTitlePrefix string

var tasksListCmd = &cobra.Command{
	Use:   "list",
	Short: "list Tasks (get_tasks)",
	RunE: func(cmd *cobra.Command, args []string) error {
		req := map[string]any{}
		if tasksTitlePrefix != "" {
			req["title_pat"] = map[string]string{"starts_with": tasksTitlePrefix}
		}
		var out map[string]any
		if err := httpClient.call(cmd.Context(), "get_tasks", req, &out); err != nil {
			return err
		}
		printResult(out)
		return nil
	},
}

var (
	tasksAddTitle string
	tasksAddDesc  string
)

var tasksAddCmd = &cobra.Command{
	Use:   "add",
	Short: "add a Task (add_tasks)",
	RunE: func(cmd *cobra.Command, args []string) error {
		type taskSpec struct {
			Title string `json:"Title"`
			Desc  string `json:"Desc"`
		}
		specs := []taskSpec{{Title: tasksAddTitle, Desc: tasksAddDesc}}
		var out []uint64
		if err := httpClient.call(cmd.Context(), "add_tasks", specs, &out); err != nil {
			return err
		}
		printResult(out)
		return nil
	},
}

var tasksPopIDs []string

var tasksPopCmd = &cobra.Command{
	Use:   "pop",
	Short: "remove Tasks by ID (pop_tasks)",
	RunE: func(cmd *cobra.Command, args []string) error {
		req := idSet(tasksPopIDs)
		var out map[string]bool
		if err := httpClient.call(cmd.Context(), "pop_tasks", req, &out); err != nil {
			return err
		}
		printResult(out)
		return nil
	},
}

// --- slots ---

var slotsCmd = &cobra.Command{
	Use:   "slots",
	Short: "manage Slots",
}

var slotsListCmd = &cobra.Command{
	Use:   "list",
	Short: "list Slots (get_slots)",
	RunE: func(cmd *cobra.Command, args []string) error {
		var out []any
		if err := httpClient.call(cmd.Context(), "get_slots", map[string]any{}, &out); err != nil {
			return err
		}
		printResult(out)
		return nil
	},
}

var (
	slotsAddStart string
	slotsAddEnd   string
	slotsAddName  string
)

var slotsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "add a Slot (add_slots)",
	RunE: func(cmd *cobra.Command, args []string) error {
		start, err := time.Parse(time.RFC3339, slotsAddStart)
		if err != nil {
			return fmt.Errorf("--start: %w", err)
		}
		end, err := time.Parse(time.RFC3339, slotsAddEnd)
		if err != nil {
			return fmt.Errorf("--end: %w", err)
		}
		type interval struct {
			Start time.Time
			End   time.Time
		}
		type slotSpec struct {
			Interval interval
			Name     string
		}
		specs := []slotSpec{{Interval: interval{Start: start, End: end}, Name: slotsAddName}}
		var out []uint64
		if err := httpClient.call(cmd.Context(), "add_slots", specs, &out); err != nil {
			return err
		}
		printResult(out)
		return nil
	},
}

var slotsPopIDs []string

var slotsPopCmd = &cobra.Command{
	Use:   "pop",
	Short: "remove Slots by ID (pop_slots)",
	RunE: func(cmd *cobra.Command, args []string) error {
		req := idSet(slotsPopIDs)
		var out map[string]bool
		if err := httpClient.call(cmd.Context(), "pop_slots", req, &out); err != nil {
			return err
		}
		printResult(out)
		return nil
	},
}

func init() {
	usersListCmd.Flags().StringVar(&usersNamePrefix, "name-prefix", "", "only Users whose name has this prefix")
	usersAddCmd.Flags().StringSliceVar(&usersAddNames, "name", nil, "User name (repeatable)")
	usersPopCmd.Flags().StringSliceVar(&usersPopIDs, "id", nil, "User ID to remove (repeatable)")

	tasksListCmd.Flags().StringVar(&tasksTitlePrefix, "title-prefix", "", "only Tasks whose title has this prefix")
	tasksAddCmd.Flags().StringVar(&tasksAddTitle, "title", "", "Task title")
	tasksAddCmd.Flags().StringVar(&tasksAddDesc, "desc", "", "Task description")
	tasksPopCmd.Flags().StringSliceVar(&tasksPopIDs, "id", nil, "Task ID to remove (repeatable)")

	slotsAddCmd.Flags().StringVar(&slotsAddStart, "start", "", "RFC3339 start instant")
	slotsAddCmd.Flags().StringVar(&slotsAddEnd, "end", "", "RFC3339 end instant")
	slotsAddCmd.Flags().StringVar(&slotsAddName, "name", "", "Slot name")
	slotsPopCmd.Flags().StringSliceVar(&slotsPopIDs, "id", nil, "Slot ID to remove (repeatable)")
}

// idSet turns a slice of decimal ID strings into the {"id": {}} shape
// pop_users/pop_tasks/pop_slots decode (domain IDs marshal as decimal
// strings when they key a JSON object).
func idSet(ids []string) map[string]struct{} {
	out := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		out[strings.TrimSpace(id)] = struct{}{}
	}
	return out
}

// --- schedule / status / quit ---

var scheduleSavePath string

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "run the Scheduling Engine over the Store's current contents",
	RunE: func(cmd *cobra.Command, args []string) error {
		var result json.RawMessage
		if err := httpClient.call(cmd.Context(), "schedule", nil, &result); err != nil {
			return err
		}
		if scheduleSavePath != "" {
			if err := os.WriteFile(scheduleSavePath, result, 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", scheduleSavePath, err)
			}
		}
		var out any
		json.Unmarshal(result, &out)
		printResult(out)
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "report whether schedulerd is up (GET /healthz)",
	RunE: func(cmd *cobra.Command, args []string) error {
		body, err := httpClient.healthz(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Println(strings.TrimSpace(body))
		return nil
	},
}

var quitCmd = &cobra.Command{
	Use:   "quit",
	Short: "ask schedulerd to stop accepting new work and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		return httpClient.call(cmd.Context(), "quit", nil, nil)
	},
}

// --- watch ---

var (
	watchInterval time.Duration
	watchKind     string
)

// watchCmd polls get_slots/get_tasks on an interval and prints IDs as
// they first appear. schedulerd's own pkg/watch pollers watch a
// *store.Store in-process; schedulerctl talks to schedulerd only over
// HTTP, so it diffs successive poll results instead of sharing a
// poller.
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "poll for new Tasks or Slots and print them as they appear",
	RunE: func(cmd *cobra.Command, args []string) error {
		method := "get_tasks"
		if watchKind == "slots" {
			method = "get_slots"
		}

		ticker := time.NewTicker(watchInterval)
		defer ticker.Stop()

		seen := map[string]struct{}{}
		ctx := cmd.Context()
		for {
			var out map[string]json.RawMessage
			if watchKind == "slots" {
				// get_slots returns a list, not a map keyed by id.
				var list []json.RawMessage
				if err := httpClient.call(ctx, method, map[string]any{}, &list); err != nil {
					return err
				}
				out = make(map[string]json.RawMessage, len(list))
				for _, raw := range list {
					var slot struct{ ID json.RawMessage }
					if err := json.Unmarshal(raw, &slot); err != nil {
						return err
					}
					out[string(slot.ID)] = raw
				}
			} else if err := httpClient.call(ctx, method, map[string]any{}, &out); err != nil {
				return err
			}
			for id, raw := range out {
				if _, ok := seen[id]; ok {
					continue
				}
				seen[id] = struct{}{}
				fmt.Printf("%s: %s %s\n", watchKind, id, raw)
			}

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
			}
		}
	},
}

func init() {
	scheduleCmd.Flags().StringVar(&scheduleSavePath, "save", "", "write the resulting Schedule to this path as well")
	watchCmd.Flags().DurationVar(&watchInterval, "interval", 2*time.Second, "poll interval")
	watchCmd.Flags().StringVar(&watchKind, "kind", "tasks", "tasks or slots")
}

// --- version / docs ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "print the client version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(rootCmd.Version)
	},
}

var genDocsDir string

var genDocsCmd = &cobra.Command{
	Use:    "generate-docs",
	Short:  "generate Markdown documentation for this command tree",
	Hidden: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := os.MkdirAll(genDocsDir, 0o755); err != nil {
			return err
		}
		return doc.GenMarkdownTree(rootCmd, genDocsDir)
	},
}

func init() {
	genDocsCmd.Flags().StringVar(&genDocsDir, "dir", "./docs", "output directory")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fail(err)
	}
}
