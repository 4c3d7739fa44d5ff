// quickadd разбирает свободный текст о покупке в черновик операции и печатает
// его в JSON. Удобен для проверки разбора без запуска сервера.
package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"example.com/pocket-ledger/backend/internal/textparse"
)

var nowFlag string

var rootCmd = &cobra.Command{
	Use:   "quickadd [text...]",
	Short: "Parse free-form expense text into a transaction draft",
	Long:  "Parses text like \"어제 스타벅스 5천원\" or \"coffee 4.50 yesterday\" into a transaction draft and prints it as JSON.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runParse,
}

var receiptCmd = &cobra.Command{
	Use:   "receipt",
	Short: "Extract the total amount from receipt lines on stdin",
	Args:  cobra.NoArgs,
	RunE:  runReceipt,
}

func init() {
	rootCmd.Flags().StringVar(&nowFlag, "now", "", "Resolve relative dates against this date (format: YYYY-MM-DD)")
	rootCmd.AddCommand(receiptCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runParse(cmd *cobra.Command, args []string) error {
	now := time.Now()
	if nowFlag != "" {
		parsed, err := time.Parse("2006-01-02", nowFlag)
		if err != nil {
			return fmt.Errorf("invalid --now value: %w", err)
		}
		now = parsed
	}

	text := strings.Join(args, " ")

	draft := textparse.Parse(text, now)
	if !draft.Valid() {
		return fmt.Errorf("no amount found in %q", text)
	}

	out, err := json.MarshalIndent(draft, "", "  ")
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), string(out))

	return nil
}

func runReceipt(cmd *cobra.Command, args []string) error {
	scanner := bufio.NewScanner(cmd.InOrStdin())

	lines := make([]textparse.ReceiptLine, 0)
	for scanner.Scan() {
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		lines = append(lines, textparse.ReceiptLine{Text: text})
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read stdin: %w", err)
	}

	amount, found := textparse.ExtractReceiptAmount(lines)

	out, err := json.Marshal(map[string]interface{}{
		"amount": amount,
		"found":  found,
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), string(out))

	return nil
}
