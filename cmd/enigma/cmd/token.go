package cmd

import (
	"fmt"

	"github.com/solatis/enigma/internal/core/auth"
	"github.com/solatis/enigma/internal/core/config"
	"github.com/spf13/cobra"
)

func newTokenCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "token OPERATOR",
		Short: "Issue an operator token for the cipher service",
		Long: `Issue an operator token signed with the secret in ` + config.AuthSecretEnv + `.
Clients send it in the x-api-key metadata. Changing the secret revokes all tokens.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			secret, err := config.AuthSecret()
			if err != nil {
				return err
			}
			if secret == nil {
				return fmt.Errorf("%s not set", config.AuthSecretEnv)
			}
			token, err := auth.IssueToken(secret, args[0])
			if err != nil {
				return err
			}
			o.logger.Debug("issued operator token", "operator", args[0])
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
}
