package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"paydesk/internal/payment"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

type webhookFlags struct {
	secret        string
	accountID     int64
	userID        int64
	amount        string
	transactionID string
}

func (f *webhookFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.secret, "secret", "", "shared secret (default $SECRET_PAYMENT_KEY)")
	cmd.Flags().Int64Var(&f.accountID, "account", 0, "target account id")
	cmd.Flags().Int64Var(&f.userID, "user", 0, "owner user id")
	cmd.Flags().StringVar(&f.amount, "amount", "", "amount, sent and signed verbatim")
	cmd.Flags().StringVar(&f.transactionID, "transaction-id", "", "external transaction id (default: random)")
	_ = cmd.MarkFlagRequired("account")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("amount")
}

func (f *webhookFlags) webhook() (payment.Webhook, error) {
	secret := f.secret
	if secret == "" {
		_ = godotenv.Load()
		secret = os.Getenv("SECRET_PAYMENT_KEY")
	}
	if secret == "" {
		return payment.Webhook{}, fmt.Errorf("no secret: pass --secret or set SECRET_PAYMENT_KEY")
	}
	w := payment.MockWebhook(secret, f.accountID, f.userID, f.amount)
	if f.transactionID != "" {
		w.TransactionID = f.transactionID
		w.Signature = payment.Sign(w.AccountID, w.Amount, w.TransactionID, w.UserID, secret)
	}
	return w, nil
}

func form(w payment.Webhook) url.Values {
	return url.Values{
		"transaction_id": {w.TransactionID},
		"account_id":     {strconv.FormatInt(w.AccountID, 10)},
		"user_id":        {strconv.FormatInt(w.UserID, 10)},
		"amount":         {w.Amount},
		"signature":      {w.Signature},
	}
}

func signCmd() *cobra.Command {
	var f webhookFlags
	cmd := &cobra.Command{
		Use:   "sign",
		Short: "Print a signed webhook payload as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := f.webhook()
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(map[string]string{
				"transaction_id": w.TransactionID,
				"account_id":     strconv.FormatInt(w.AccountID, 10),
				"user_id":        strconv.FormatInt(w.UserID, 10),
				"amount":         w.Amount,
				"signature":      w.Signature,
			})
		},
	}
	f.register(cmd)
	return cmd
}

func sendCmd() *cobra.Command {
	var (
		f       webhookFlags
		baseURL string
		repeat  int
	)
	cmd := &cobra.Command{
		Use:   "send",
		Short: "Sign a webhook and post it to the server",
		Long: `Sign a webhook and post it to the server.

Examples:
  paymock send --account 3 --user 2 --amount 10.50
  paymock send --account 999999 --user 3 --amount 100 --repeat 2`,
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := f.webhook()
			if err != nil {
				return err
			}
			client := &http.Client{Timeout: 10 * time.Second}
			endpoint := strings.TrimRight(baseURL, "/") + "/api/v1/payments/webhook"
			for i := 0; i < repeat; i++ {
				resp, err := client.PostForm(endpoint, form(w))
				if err != nil {
					return err
				}
				body, err := io.ReadAll(resp.Body)
				_ = resp.Body.Close()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %d %s\n", w.TransactionID, resp.StatusCode, strings.TrimSpace(string(body)))
			}
			return nil
		},
	}
	f.register(cmd)
	cmd.Flags().StringVar(&baseURL, "url", "http://localhost:8000", "server base URL")
	cmd.Flags().IntVar(&repeat, "repeat", 1, "post the same payload this many times")
	return cmd
}
