package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"cv-forge/internal/adapter/repository"
	"cv-forge/internal/model"
	"cv-forge/internal/usecase"
	"cv-forge/pkg/infrastructure"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a CV JSON file to PDF (or HTML with --html)",
	RunE: func(cmd *cobra.Command, _ []string) error {
		in, _ := cmd.Flags().GetString("in")
		out, _ := cmd.Flags().GetString("out")
		asHTML, _ := cmd.Flags().GetBool("html")

		renderer := infrastructure.NewChromedpRenderer(viper.GetString("pdf.chrome-path"), viper.GetDuration("pdf.timeout"))
		return renderFile(cmd.Context(), renderer, in, out, asHTML)
	},
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().String("in", "", "CV JSON file")
	renderCmd.Flags().String("out", "", "output file")
	renderCmd.Flags().Bool("html", false, "write the HTML page instead of a PDF")
	renderCmd.MarkFlagRequired("in")
	renderCmd.MarkFlagRequired("out")
}

func readCV(path string) (model.CV, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return model.CV{}, err
	}
	cv, err := model.Decode(raw)
	if err != nil {
		return model.CV{}, fmt.Errorf("%s: %w", path, err)
	}
	return cv, nil
}

func renderFile(ctx context.Context, renderer usecase.Renderer, in, out string, asHTML bool) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cv, err := readCV(in)
	if err != nil {
		return err
	}

	p := usecase.NewProcessor(nil, renderer, repository.NewMemoryStore(), nil, usecase.WithRenderRetry(1, time.Second))
	var data []byte
	if asHTML {
		html, err := p.RenderHTML(cv)
		if err != nil {
			return err
		}
		data = []byte(html)
	} else {
		if data, err = p.RenderPDF(ctx, cv); err != nil {
			return err
		}
	}

	if err := os.WriteFile(out, data, 0o644); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "wrote %s\n", out)
	return nil
}
