package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/htsflow/htsflow/internal/cli"
	"github.com/htsflow/htsflow/internal/model"
	"github.com/htsflow/htsflow/internal/session"
)

func classifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify [description...]",
		Short: "Classify a product description without the chat interface",
		Long: `Send one product description and print the backend's reply.

If the classifier needs clarification it prints the question instead of
results; use the chat command to answer interactively. With --file,
classifies every row of a CSV (first column is the description) and
writes a results CSV to stdout.`,
		Example: `  htsflow classify "men's cotton t-shirts, short sleeve"
  htsflow classify --json "stainless steel kitchen knives"
  htsflow classify --file products.csv --skip-header > classified.csv`,
		RunE: runClassify,
	}

	cmd.Flags().Bool("json", false, "print the raw response as JSON")
	cmd.Flags().String("file", "", "CSV file of product descriptions to classify")
	cmd.Flags().Bool("skip-header", false, "skip the first row of the CSV file")

	return cmd
}

func runClassify(cmd *cobra.Command, args []string) error {
	backend, err := newBackendClient()
	if err != nil {
		return err
	}

	store := openArchive()
	if store != nil {
		defer func() { _ = store.Close() }()
	}
	sess := newSession(backend, store)

	file, _ := cmd.Flags().GetString("file")
	if file != "" {
		skipHeader, _ := cmd.Flags().GetBool("skip-header")
		return classifyFile(cmd.Context(), sess, file, skipHeader)
	}

	if len(args) == 0 {
		return fmt.Errorf("a product description is required (or use --file)")
	}
	description := strings.Join(args, " ")

	reply, err := classifyOne(cmd.Context(), sess, description)
	if err != nil {
		return err
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return writeJSON(cmd.OutOrStdout(), sess.SessionID(), reply)
	}

	switch reply.Type {
	case model.TypeQuestion:
		cli.WriteQuestion(cmd.OutOrStdout(), reply.Question)
	case model.TypeResult:
		cli.WriteResults(cmd.OutOrStdout(), reply.Results, reply.Analysis)
	}

	return nil
}

// classifyOne runs one description through a fresh conversation and returns
// the assistant's reply.
func classifyOne(ctx context.Context, sess *session.Client, description string) (*model.Message, error) {
	sess.StartNewChat()

	if !sess.SendMessage(ctx, description) {
		return nil, fmt.Errorf("empty product description")
	}
	if sess.Phase() == session.Failed {
		return nil, fmt.Errorf("classification failed: %s", sess.Err())
	}

	messages := sess.Messages()
	reply := messages[len(messages)-1]
	return &reply, nil
}

// classifyFile classifies every row of a CSV file, writing a results CSV to
// stdout. Rows that fail keep their error in the status column so one bad
// row never aborts the batch.
func classifyFile(ctx context.Context, sess *session.Client, path string, skipHeader bool) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open input file: %w", err)
	}
	defer func() { _ = f.Close() }()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return fmt.Errorf("failed to read input file: %w", err)
	}
	if skipHeader && len(rows) > 0 {
		rows = rows[1:]
	}
	if len(rows) == 0 {
		return fmt.Errorf("no rows to classify in %s", path)
	}

	bar := progressbar.NewOptions(len(rows),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]Classifying products...[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(os.Stderr)
		}),
	)

	writer := csv.NewWriter(os.Stdout)
	defer writer.Flush()

	header := []string{"description", "status", "hts_code", "confidence", "effective_duty", "detail"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return err
		}

		description := strings.TrimSpace(row[0])
		record := classifyRow(ctx, sess, description)
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		_ = bar.Add(1)
	}

	return nil
}

// classifyRow classifies one description, folding failures into the record.
func classifyRow(ctx context.Context, sess *session.Client, description string) []string {
	reply, err := classifyOne(ctx, sess, description)
	if err != nil {
		return []string{description, "error", "", "", "", err.Error()}
	}

	if reply.Type == model.TypeQuestion {
		return []string{description, "needs_clarification", "", "", "", reply.Question}
	}

	top := reply.Results[0]
	return []string{
		description,
		"classified",
		top.HTSCode,
		strconv.Itoa(top.ConfidenceScore),
		top.EffectiveDuty,
		top.Description,
	}
}

// jsonReply mirrors the backend reply shape for --json output.
type jsonReply struct {
	SessionID string       `json:"session_id"`
	Type      string       `json:"type"`
	Question  string       `json:"question,omitempty"`
	Analysis  string       `json:"analysis,omitempty"`
	Results   []jsonResult `json:"results,omitempty"`
}

type jsonResult struct {
	HTSCode         string `json:"hts_code"`
	Description     string `json:"description"`
	EffectiveDuty   string `json:"effective_duty"`
	SpecialDuty     string `json:"special_duty,omitempty"`
	Unit            string `json:"unit,omitempty"`
	Chapter         string `json:"chapter"`
	MatchType       string `json:"match_type"`
	DutySource      string `json:"duty_source"`
	ConfidenceScore int    `json:"confidence_score"`
}

func writeJSON(w io.Writer, sessionID string, reply *model.Message) error {
	out := jsonReply{
		SessionID: sessionID,
		Type:      string(reply.Type),
		Question:  reply.Question,
		Analysis:  reply.Analysis,
	}
	for _, r := range reply.Results {
		out.Results = append(out.Results, jsonResult{
			HTSCode:         r.HTSCode,
			Description:     r.Description,
			EffectiveDuty:   r.EffectiveDuty,
			SpecialDuty:     r.SpecialDuty,
			Unit:            r.Unit,
			Chapter:         r.Chapter,
			MatchType:       string(r.MatchType),
			DutySource:      string(r.DutySource),
			ConfidenceScore: r.ConfidenceScore,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
