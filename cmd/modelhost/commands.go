package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/fornjot/modelhost/application/schema"
	"github.com/fornjot/modelhost/domain/entities"
	"github.com/fornjot/modelhost/host"
	"github.com/spf13/cobra"
)

func (a *app) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the models found in the model directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			s, err := a.load(ctx)
			if err != nil {
				return err
			}
			defer s.Close(ctx)

			models, err := s.registry.List(ctx)
			if err != nil {
				return err
			}

			if a.jsonOutput {
				return a.printJSON(models)
			}
			w := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tVERSION\tDESCRIPTION")
			for _, m := range models {
				fmt.Fprintf(w, "%s\t%s\t%s\n", m.Name, m.Version, m.Description)
			}
			return w.Flush()
		},
	}
}

func (a *app) runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <model> [key=value ...]",
		Short: "Generate a shape with the named model",
		Long: `Generate a shape with the model whose metadata name matches <model> exactly.

A typed error returned by the model is reported and does not fail the command.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			name := args[0]

			modelArgs, err := host.ParseArguments(args[1:])
			if err != nil {
				return err
			}
			a.logger.InfoContext(ctx, "Starting",
				"model_dir", a.cfg.ModelDir, "model", name, "args", argumentAttrs(modelArgs))

			s, err := a.load(ctx)
			if err != nil {
				return err
			}
			defer s.Close(ctx)

			model, err := s.registry.Find(ctx, name)
			if err != nil {
				return err
			}

			outcome, err := model.Generate(ctx, modelArgs)
			if err != nil {
				return err
			}

			if a.jsonOutput {
				return a.printJSON(entities.GenerateResultFromOutcome(outcome))
			}
			if outcome.Failed() {
				a.logger.WarnContext(ctx, "Model returned an error", "model", name, "message", outcome.Err.Message)
				fmt.Fprintf(a.stdout, "%s: %s\n", name, outcome.Err.Message)
				return nil
			}
			a.logger.DebugContext(ctx, "Generated model", "model", name)
			fmt.Fprintf(a.stdout, "%s: %d vertices, %d faces\n",
				name, len(outcome.Shape.Vertices), len(outcome.Shape.Faces))
			return nil
		},
	}
}

func (a *app) schemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema [export]",
		Short: "Print the JSON schema of the payloads a model returns",
		Long: `Print the JSON schema of the payload returned by on_load or generate.
Without an argument, both schemas are printed as one object keyed by export name.`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgs:         schema.Exports(),
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(_ *cobra.Command, args []string) error {
			if len(args) == 1 {
				raw, err := schema.ExportSchema(args[0])
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(a.stdout, string(raw))
				return err
			}

			all := make(map[string]json.RawMessage, len(schema.Exports()))
			for _, export := range schema.Exports() {
				raw, err := schema.ExportSchema(export)
				if err != nil {
					return err
				}
				all[export] = raw
			}
			return a.printJSON(all)
		},
	}
}

func (a *app) printJSON(v any) error {
	enc := json.NewEncoder(a.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// argumentAttrs renders arguments for the startup log line.
func argumentAttrs(args []entities.Argument) map[string]string {
	out := make(map[string]string, len(args))
	for _, arg := range args {
		out[arg.Key] = arg.Value
	}
	return out
}
