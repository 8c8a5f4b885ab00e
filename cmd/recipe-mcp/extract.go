package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ironsheep/recipe-ocr-mcp/internal/config"
	"github.com/ironsheep/recipe-ocr-mcp/internal/extract"
	"github.com/ironsheep/recipe-ocr-mcp/internal/imaging"
	"github.com/ironsheep/recipe-ocr-mcp/internal/ocr"
	"github.com/ironsheep/recipe-ocr-mcp/internal/recipe"
	"github.com/ironsheep/recipe-ocr-mcp/internal/selection"
)

var (
	extractImage    string
	extractRegions  string
	extractOut      string
	extractTitle    string
	extractPrep     string
	extractCook     string
	extractServings string
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Recognize regions of one image and print the Markdown recipe",
	Long: `Run the whole wizard in one shot: load --image, commit every rectangle in
the --regions JSON file, run OCR and write the recipe as Markdown to --out
(or stdout).

The regions file is a JSON array in image pixels, in the order the lines
should appear:

  [
    {"category": "ingredient",  "x": 40, "y": 120, "width": 600, "height": 300},
    {"category": "instruction", "x": 40, "y": 480, "width": 600, "height": 500}
  ]`,
	SilenceUsage: true,
	RunE:         runExtract,
}

func init() {
	RootCmd.AddCommand(extractCmd)
	f := extractCmd.Flags()
	f.StringVar(&extractImage, "image", "", "Path to the recipe photo")
	f.StringVar(&extractRegions, "regions", "", "Path to the regions JSON file")
	f.StringVar(&extractOut, "out", "", "Write Markdown here instead of stdout")
	f.StringVar(&extractTitle, "title", recipe.DefaultTitle, "Recipe title")
	f.StringVar(&extractPrep, "prep-time", "", "Preparation time note")
	f.StringVar(&extractCook, "cook-time", "", "Cooking time note")
	f.StringVar(&extractServings, "servings", "", "Servings note")
	_ = extractCmd.MarkFlagRequired("image")
	_ = extractCmd.MarkFlagRequired("regions")
}

// regionSpec is one rectangle of the regions file
type regionSpec struct {
	Category string  `json:"category"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
}

// details are the recipe fields given on the command line
type details struct {
	Title, Prep, Cook, Servings string
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	specs, err := readRegionSpecs(extractRegions)
	if err != nil {
		return err
	}

	r, err := extractRecipe(cmd.Context(), cfg, ocr.NewTesseractFactory(ocrOptions(cfg, logger)), logger, extractImage, specs)
	if err != nil {
		return err
	}
	r.Title = extractTitle
	r.SetDetails(extractPrep, extractCook, extractServings)
	if err := r.CanProceed(); err != nil {
		return err
	}

	if extractOut != "" {
		if err := r.WriteFile(extractOut); err != nil {
			return err
		}
		logger.Info("recipe written", "path", extractOut)
		return nil
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), r.Markdown())
	return err
}

func readRegionSpecs(path string) ([]regionSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read regions: %w", err)
	}
	var specs []regionSpec
	if err := json.Unmarshal(data, &specs); err != nil {
		return nil, fmt.Errorf("failed to decode regions %s: %w", path, err)
	}
	if len(specs) == 0 {
		return nil, errors.New("regions file lists no regions")
	}
	return specs, nil
}

// extractRecipe commits specs over the image at path and recognizes them.
// Rectangles are clamped to the image; one with no area inside it is an error.
func extractRecipe(ctx context.Context, cfg *config.Config, factory ocr.Factory, logger *slog.Logger, path string, specs []regionSpec) (*recipe.Recipe, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	img, info, err := imaging.LoadFile(path)
	if err != nil {
		return nil, err
	}
	surface, err := imaging.NewSurface(img, 0)
	if err != nil {
		return nil, err
	}
	logger.Debug("image loaded", "path", path, "width", info.Width, "height", info.Height)

	model := selection.NewModel()
	ctrl := selection.NewController(model)
	ctrl.SetSource(surface)

	for i, sp := range specs {
		cat, err := selection.ParseCategory(sp.Category)
		if err != nil {
			return nil, fmt.Errorf("region %d: %w", i+1, err)
		}
		r, err := ctrl.CommitRect(
			selection.ImagePoint{X: sp.X, Y: sp.Y},
			selection.Extent{Width: sp.Width, Height: sp.Height},
			cat,
		)
		if err != nil {
			return nil, fmt.Errorf("region %d: %w", i+1, err)
		}
		if r == nil {
			return nil, fmt.Errorf("region %d has no area inside the %dx%d image", i+1, info.Width, info.Height)
		}
	}

	orch := extract.New(factory,
		extract.WithRules(extract.Rules{InstructionTrailingPeriod: cfg.InstructionPeriod}),
		extract.WithConcurrency(cfg.Concurrency),
		extract.WithLogger(logger),
	)
	res, err := orch.Extract(ctx, model.Regions())
	if err != nil {
		return nil, err
	}
	return recipe.New(res.Ingredients, res.Instructions), nil
}
