package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/arya/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse and export past interview sessions",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		sessions, err := s.EventRepo().ListSessions(cmd.Context(), limit)
		if err != nil {
			return fmt.Errorf("list sessions: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(sessions) == 0 {
			fmt.Fprintln(out, "No sessions recorded yet.")
			return nil
		}

		fmt.Fprintf(out, "%-36s  %-16s  %-16s  %-24s  %5s  %s\n",
			"Session", "Started", "Name", "Topic", "Score", "Result")
		fmt.Fprintln(out, strings.Repeat("─", 112))

		for _, ss := range sessions {
			score, result := "-", "unfinished"
			if ss.Finished {
				score = fmt.Sprintf("%d", ss.Score)
				result = "failed"
				if ss.Passed {
					result = "passed"
				}
			}
			fmt.Fprintf(out, "%-36s  %-16s  %-16s  %-24s  %5s  %s\n",
				ss.SessionID,
				ss.StartedAt.Local().Format("2006-01-02 15:04"),
				truncate(ss.Name, 16),
				truncate(ss.Topic, 24),
				score,
				result,
			)
		}
		return nil
	},
}

var historyExportCmd = &cobra.Command{
	Use:   "export <session-id>",
	Short: "Export a session transcript as YAML",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		repo := s.EventRepo()

		summary, err := repo.GetSession(ctx, args[0])
		if err != nil {
			return fmt.Errorf("get session: %w", err)
		}
		if summary == nil {
			return fmt.Errorf("session %s not found", args[0])
		}

		answers, err := repo.SessionAnswers(ctx, args[0])
		if err != nil {
			return fmt.Errorf("get answers: %w", err)
		}

		w := cmd.OutOrStdout()
		if output != "" && output != "-" {
			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("create output: %w", err)
			}
			defer f.Close()
			w = f
		}
		return writeExport(w, buildExport(*summary, answers))
	},
}

// sessionExport is the YAML document written by `history export`.
type sessionExport struct {
	SessionID         string         `yaml:"session_id"`
	StartedAt         time.Time      `yaml:"started_at"`
	Name              string         `yaml:"name"`
	Topic             string         `yaml:"topic"`
	QuestionsPerLevel int            `yaml:"questions_per_level"`
	Finished          bool           `yaml:"finished"`
	Score             *int           `yaml:"score,omitempty"`
	Passed            *bool          `yaml:"passed,omitempty"`
	Suggestion        string         `yaml:"suggestion,omitempty"`
	DurationSecs      int            `yaml:"duration_secs,omitempty"`
	Answers           []answerExport `yaml:"answers"`
}

type answerExport struct {
	Level     string `yaml:"level"`
	Question  string `yaml:"question"`
	Answer    string `yaml:"answer"`
	TimedOut  bool   `yaml:"timed_out,omitempty"`
	ElapsedMs int64  `yaml:"elapsed_ms"`
}

func buildExport(ss store.SessionSummary, answers []store.AnswerRecord) sessionExport {
	out := sessionExport{
		SessionID:         ss.SessionID,
		StartedAt:         ss.StartedAt.UTC(),
		Name:              ss.Name,
		Topic:             ss.Topic,
		QuestionsPerLevel: ss.PerLevel,
		Finished:          ss.Finished,
		Answers:           make([]answerExport, 0, len(answers)),
	}
	if ss.Finished {
		score, passed := ss.Score, ss.Passed
		out.Score = &score
		out.Passed = &passed
		out.Suggestion = ss.Suggestion
		out.DurationSecs = int(ss.Duration.Seconds())
	}
	for _, a := range answers {
		out.Answers = append(out.Answers, answerExport{
			Level:     a.Level,
			Question:  a.Question,
			Answer:    a.Answer,
			TimedOut:  a.TimedOut,
			ElapsedMs: a.ElapsedMs,
		})
	}
	return out
}

func writeExport(w io.Writer, doc sessionExport) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}

func init() {
	historyListCmd.Flags().IntP("limit", "n", 20, "Number of sessions to show")
	historyExportCmd.Flags().StringP("output", "o", "", "Write to this file instead of stdout")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyExportCmd)
}
