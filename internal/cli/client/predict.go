package client

import (
	"context"

	"github.com/spf13/cobra"
)

type predictRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Hospital    string `json:"hospital"`
	PubMedTopic string `json:"pubmed_topic"`
}

func PredictCmd() *cobra.Command {
	var req predictRequest

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Predict the country of one healthcare professional",
		Long:  "Runs a single prediction and stores it in the server's search history.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := NewAPIClientWithCmd(cmd)
			if err != nil {
				return err
			}

			var rec SearchRecord
			if err := api.Post(context.Background(), "/api/predict-country", req, &rec); err != nil {
				return err
			}
			return printResult(cmd, rec, func() { printRecord(cmd, &rec) })
		},
	}

	cmd.Flags().StringVar(&req.Name, "name", "", "Full name")
	cmd.Flags().StringVar(&req.Email, "email", "", "Email address")
	cmd.Flags().StringVar(&req.Hospital, "hospital", "", "Hospital affiliation")
	cmd.Flags().StringVar(&req.PubMedTopic, "topic", "", "PubMed article title or topic")
	for _, name := range []string{"name", "email", "hospital", "topic"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}
