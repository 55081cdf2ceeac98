package cmd

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/solatis/enigma/internal/cipher"
	"github.com/solatis/enigma/internal/keyfile"
	"github.com/spf13/cobra"
)

func newKeysCmd(o *rootOptions) *cobra.Command {
	keysCmd := &cobra.Command{
		Use:   "keys",
		Short: "Manage the keybook of archived rotor keys",
	}

	generateCmd := &cobra.Command{
		Use:   "generate LABEL",
		Short: "Generate a rotor key and store it under LABEL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := keyfile.GenerateKey(cipher.Default, keyfile.NewRand())
			if err != nil {
				return err
			}
			return storeKey(cmd, o, args[0], key)
		},
	}

	importCmd := &cobra.Command{
		Use:   "import LABEL [ROTOR_FILE]",
		Short: "Store an existing rotor key file under LABEL",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := o.loadConfig(cmd)
			if err != nil {
				return err
			}
			path := cfg.Machine.RotorFile
			if len(args) == 2 {
				path = args[1]
			}
			key, err := keyfile.LoadKey(path, cipher.Default)
			if err != nil {
				return err
			}
			return storeKey(cmd, o, args[0], key)
		},
	}

	exportCmd := &cobra.Command{
		Use:   "export REF [ROTOR_FILE]",
		Short: "Write the keybook entry REF (id or label) to a rotor key file",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := o.loadConfig(cmd)
			if err != nil {
				return err
			}
			path := cfg.Machine.RotorFile
			if len(args) == 2 {
				path = args[1]
			}

			kb, closeDB, err := o.openKeybook()
			if err != nil {
				return err
			}
			defer closeDB()

			entry, err := kb.Lookup(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := keyfile.SaveKey(path, entry.Key); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Rotor configuration saved to: %s\n", path)
			return nil
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List keybook entries, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			kb, closeDB, err := o.openKeybook()
			if err != nil {
				return err
			}
			defer closeDB()

			entries, err := kb.List(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tLABEL\tCREATED AT")
			for _, e := range entries {
				fmt.Fprintf(w, "%s\t%s\t%s\n", e.ID, e.Label, e.CreatedAt.Format(time.RFC3339))
			}
			return w.Flush()
		},
	}

	keysCmd.AddCommand(generateCmd, importCmd, exportCmd, listCmd)
	return keysCmd
}

func storeKey(cmd *cobra.Command, o *rootOptions, label string, key *cipher.Key) error {
	kb, closeDB, err := o.openKeybook()
	if err != nil {
		return err
	}
	defer closeDB()

	id, err := kb.Store(cmd.Context(), label, key)
	if err != nil {
		return err
	}
	o.logger.Info("key stored", "key_id", id, "label", label)
	fmt.Fprintln(cmd.OutOrStdout(), id)
	return nil
}
