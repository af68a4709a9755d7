package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/instalens/instalens/internal/errors"
	"github.com/instalens/instalens/internal/instalens"
	"github.com/instalens/instalens/internal/instalens/conf"
	"github.com/instalens/instalens/internal/instalens/tui"
	"github.com/instalens/instalens/internal/model"
	"github.com/instalens/instalens/pkg/util"
)

var (
	analyzeOwner     string
	analyzeName      string
	analyzeStopwords string
	analyzeNetwork   bool
	analyzeTui       bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <export.zip | chat.json>",
	Short: "Analyze an export offline without starting the server",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeOwner, "owner", "o", "", "account holder's display name (required)")
	analyzeCmd.Flags().StringVarP(&analyzeName, "name", "n", "", "only analyze relationships matching this name")
	analyzeCmd.Flags().StringVar(&analyzeStopwords, "stopwords", "", "comma-separated extra stopwords for word analysis")
	analyzeCmd.Flags().BoolVar(&analyzeNetwork, "network", false, "print the network summary instead of per-relationship analyses")
	analyzeCmd.Flags().BoolVar(&analyzeTui, "tui", false, "browse results interactively")
	analyzeCmd.MarkFlagRequired("owner")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := conf.Load(configFile)
	if err != nil {
		return err
	}
	// Offline run, no need for the message index.
	cfg.Index.Enabled = analyzeTui
	if analyzeStopwords != "" {
		cfg.Analysis.ExtraStopwords = append(cfg.Analysis.ExtraStopwords, util.Str2List(analyzeStopwords, ",")...)
	}

	app, err := instalens.New(cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	path := args[0]
	var sess *model.Session
	if strings.EqualFold(filepath.Ext(path), ".json") {
		sess, err = app.IngestConversationFile(path, analyzeOwner)
	} else {
		sess, err = app.IngestZip(path, analyzeOwner)
	}
	if err != nil {
		return err
	}

	if analyzeTui {
		return tui.New(app, sess).Run()
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	if analyzeNetwork {
		summary, skipped, err := app.Network(sess.ID)
		if err != nil {
			return err
		}
		if len(skipped) > 0 {
			fmt.Fprintf(os.Stderr, "skipped %d relationships with no usable messages\n", len(skipped))
		}
		return enc.Encode(summary)
	}

	rels, err := app.FindRelationships(sess.ID, analyzeName)
	if err != nil {
		return err
	}
	if len(rels) == 0 {
		return errors.ErrRelationshipNotFound
	}
	for _, rel := range rels {
		result, err := app.Analyze(sess.ID, rel.ID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", rel.Name, err)
			continue
		}
		if err := enc.Encode(result); err != nil {
			return err
		}
	}
	return nil
}
