package wizard

import (
	"context"
	"errors"
	"image"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ironsheep/recipe-ocr-mcp/internal/extract"
	"github.com/ironsheep/recipe-ocr-mcp/internal/imaging"
	"github.com/ironsheep/recipe-ocr-mcp/internal/ocr"
	"github.com/ironsheep/recipe-ocr-mcp/internal/recipe"
	"github.com/ironsheep/recipe-ocr-mcp/internal/selection"
)

func TestNew_StartsAtUpload(t *testing.T) {
	s := New(Options{Logger: quietLogger()})

	st := s.Status()
	if st.Step != StepUpload {
		t.Errorf("Step = %v, want upload", st.Step)
	}
	if st.Category != selection.Ingredient {
		t.Errorf("Category = %v, want ingredient", st.Category)
	}
	if st.Image != nil {
		t.Error("expected no image")
	}
	if _, err := s.Frame(); !errors.Is(err, selection.ErrNoImage) {
		t.Errorf("Frame error = %v, want ErrNoImage", err)
	}
	if _, err := s.Proceed(); !errors.Is(err, selection.ErrNoImage) {
		t.Errorf("Proceed error = %v, want ErrNoImage", err)
	}
}

func TestLoadImageBytes(t *testing.T) {
	s := newSession(t, widthEngine, 1000, 400, 500)

	st := s.Status()
	if st.Step != StepSelect {
		t.Errorf("Step = %v, want select", st.Step)
	}
	if st.Image == nil || st.Image.Width != 1000 || st.Image.Height != 400 {
		t.Fatalf("Image = %+v, want 1000x400", st.Image)
	}
	if st.Scale != 0.5 {
		t.Errorf("Scale = %v, want 0.5", st.Scale)
	}
	if st.DisplayWidth != 500 || st.DisplayHeight != 200 {
		t.Errorf("display = %dx%d, want 500x200", st.DisplayWidth, st.DisplayHeight)
	}
}

func TestLoadImageBytes_NotImageLeavesState(t *testing.T) {
	s := newSession(t, widthEngine, 200, 100, 0)
	draw(t, s, selection.Ingredient, 10, 10, 50, 50)

	_, err := s.LoadImageBytes([]byte("this is plain text, not a picture"))
	if !errors.Is(err, imaging.ErrNotImage) {
		t.Fatalf("error = %v, want ErrNotImage", err)
	}

	st := s.Status()
	if st.Image.Width != 200 {
		t.Errorf("image replaced: width = %d", st.Image.Width)
	}
	if st.Regions != 1 {
		t.Errorf("Regions = %d, want 1", st.Regions)
	}
}

func TestLoadImage_ResetsSelection(t *testing.T) {
	s := newSession(t, widthEngine, 200, 100, 0)
	draw(t, s, selection.Ingredient, 10, 10, 50, 50)
	if _, err := s.Extract(context.Background()); err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	path := filepath.Join(t.TempDir(), "card.png")
	if err := os.WriteFile(path, encodePNG(t, createPatternImage(300, 150)), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	info, err := s.LoadImage(path)
	if err != nil {
		t.Fatalf("LoadImage failed: %v", err)
	}
	if info.Width != 300 {
		t.Errorf("Width = %d, want 300", info.Width)
	}

	st := s.Status()
	if st.Regions != 0 {
		t.Errorf("Regions = %d, want 0", st.Regions)
	}
	if st.Step != StepSelect {
		t.Errorf("Step = %v, want select", st.Step)
	}
	if st.Recipe != nil {
		t.Error("expected recipe to be cleared")
	}
}

func TestDrawRegion_ImageSpace(t *testing.T) {
	s := newSession(t, widthEngine, 1000, 400, 500)

	r := draw(t, s, selection.Instruction, 60, 60, 10, 10)

	if r.Origin != (selection.ImagePoint{X: 20, Y: 20}) {
		t.Errorf("Origin = %+v, want (20,20)", r.Origin)
	}
	if r.Extent != (selection.Extent{Width: 100, Height: 100}) {
		t.Errorf("Extent = %+v, want 100x100", r.Extent)
	}
	if r.Category != selection.Instruction {
		t.Errorf("Category = %v, want instruction", r.Category)
	}
	if r.Crop == nil || r.Crop.Width != 100 || r.Crop.Height != 100 {
		t.Errorf("Crop = %+v, want 100x100 snapshot", r.Crop)
	}
}

func TestPointerGesture(t *testing.T) {
	s := newSession(t, widthEngine, 400, 200, 0)

	if err := s.PointerDown(selection.ScreenPoint{X: 10, Y: 10}); err != nil {
		t.Fatalf("PointerDown failed: %v", err)
	}
	if err := s.PointerMove(selection.ScreenPoint{X: 30, Y: 40}); err != nil {
		t.Fatalf("PointerMove failed: %v", err)
	}
	st := s.Status()
	if !st.Drawing || st.Pending == nil {
		t.Fatal("expected a pending region")
	}
	if st.Pending.Extent != (selection.Extent{Width: 20, Height: 30}) {
		t.Errorf("pending Extent = %+v, want 20x30", st.Pending.Extent)
	}

	r, err := s.PointerLeave()
	if err != nil {
		t.Fatalf("PointerLeave failed: %v", err)
	}
	if r == nil {
		t.Fatal("expected a committed region")
	}
	if s.Status().Drawing {
		t.Error("still drawing after PointerLeave")
	}

	// Up with nothing in progress is a no-op
	r, err = s.PointerUp()
	if err != nil || r != nil {
		t.Errorf("PointerUp = %v, %v; want nil, nil", r, err)
	}
}

func TestDrawRegion_ZeroAreaDiscarded(t *testing.T) {
	s := newSession(t, widthEngine, 400, 200, 0)

	r, err := s.DrawRegion(selection.ScreenPoint{X: 10, Y: 10}, selection.ScreenPoint{X: 10, Y: 80})
	if err != nil {
		t.Fatalf("DrawRegion failed: %v", err)
	}
	if r != nil {
		t.Errorf("expected discard, got %+v", r)
	}
	if n := len(s.Regions()); n != 0 {
		t.Errorf("Regions = %d, want 0", n)
	}
}

func TestRemoveAndClearRegions(t *testing.T) {
	s := newSession(t, widthEngine, 400, 200, 0)
	a := draw(t, s, selection.Ingredient, 0, 0, 10, 10)
	b := draw(t, s, selection.Instruction, 20, 20, 40, 40)
	draw(t, s, selection.Ingredient, 50, 50, 60, 60)

	if err := s.RemoveRegion(a.ID); err != nil {
		t.Fatalf("RemoveRegion failed: %v", err)
	}
	if err := s.RemoveRegion(a.ID); !errors.Is(err, selection.ErrRegionNotFound) {
		t.Errorf("second RemoveRegion error = %v, want ErrRegionNotFound", err)
	}

	regions := s.Regions()
	if len(regions) != 2 || regions[0].ID != b.ID {
		t.Fatalf("Regions after remove = %+v", regions)
	}

	if err := s.ClearRegions(); err != nil {
		t.Fatalf("ClearRegions failed: %v", err)
	}
	if n := len(s.Regions()); n != 0 {
		t.Errorf("Regions = %d, want 0", n)
	}
}

func TestThreshold(t *testing.T) {
	s := newSession(t, widthEngine, 100, 100, 0)

	if got := s.SetThreshold(300); got != 255 {
		t.Errorf("SetThreshold(300) = %d, want 255", got)
	}
	if got := s.SetThreshold(-4); got != 0 {
		t.Errorf("SetThreshold(-4) = %d, want 0", got)
	}
	if _, err := s.AutoThreshold(); err != nil {
		t.Fatalf("AutoThreshold failed: %v", err)
	}

	empty := New(Options{Logger: quietLogger()})
	if _, err := empty.AutoThreshold(); !errors.Is(err, selection.ErrNoImage) {
		t.Errorf("AutoThreshold error = %v, want ErrNoImage", err)
	}
}

func TestFrame_RendersOnlyWhenDirty(t *testing.T) {
	s := newSession(t, widthEngine, 200, 100, 0)

	f1, err := s.Frame()
	if err != nil {
		t.Fatalf("Frame failed: %v", err)
	}
	f2, _ := s.Frame()
	if f1 != f2 {
		t.Error("expected the cached frame when nothing changed")
	}

	s.SetThreshold(10)
	f3, _ := s.Frame()
	if f3 == f1 {
		t.Error("expected a new frame after a threshold change")
	}
	if f3.Bounds() != image.Rect(0, 0, 200, 100) {
		t.Errorf("frame bounds = %v", f3.Bounds())
	}
}

func TestResize(t *testing.T) {
	s := newSession(t, widthEngine, 1000, 400, 0)

	scale, err := s.Resize(250)
	if err != nil {
		t.Fatalf("Resize failed: %v", err)
	}
	if scale != 0.25 {
		t.Errorf("scale = %v, want 0.25", scale)
	}
	if st := s.Status(); st.ContainerWidth != 250 || st.DisplayWidth != 250 {
		t.Errorf("status container/display = %d/%d, want 250/250", st.ContainerWidth, st.DisplayWidth)
	}

	// Regions drawn after a resize use the new scale
	r := draw(t, s, selection.Ingredient, 10, 10, 20, 20)
	if r.Origin.X != 40 || r.Extent.Width != 40 {
		t.Errorf("region = %+v, want origin 40 extent 40", r)
	}
}

func TestRegion(t *testing.T) {
	s := newSession(t, widthEngine, 400, 200, 0)
	draw(t, s, selection.Ingredient, 0, 0, 30, 10)
	second := draw(t, s, selection.Instruction, 0, 20, 40, 30)

	r, n, err := s.Region(second.ID)
	if err != nil {
		t.Fatalf("Region failed: %v", err)
	}
	if n != 2 || r.ID != second.ID || r.Category != selection.Instruction {
		t.Errorf("Region = %+v #%d, want the second region", r, n)
	}

	if _, _, err := s.Region(uuid.New()); !errors.Is(err, selection.ErrRegionNotFound) {
		t.Errorf("unknown id: err = %v, want ErrRegionNotFound", err)
	}
}

func TestExtract(t *testing.T) {
	s := newSession(t, widthEngine, 400, 200, 0)
	ing := draw(t, s, selection.Ingredient, 0, 0, 30, 10)
	draw(t, s, selection.Instruction, 0, 20, 40, 30)
	draw(t, s, selection.Ingredient, 0, 40, 50, 50)

	res, err := s.Extract(context.Background())
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	if want := []string{"w30", "w50"}; !reflect.DeepEqual(res.Ingredients, want) {
		t.Errorf("Ingredients = %v, want %v", res.Ingredients, want)
	}
	if want := []string{"w40"}; !reflect.DeepEqual(res.Instructions, want) {
		t.Errorf("Instructions = %v, want %v", res.Instructions, want)
	}

	st := s.Status()
	if st.Step != StepEdit {
		t.Errorf("Step = %v, want edit", st.Step)
	}
	if st.Busy {
		t.Error("still busy after Extract")
	}
	if st.Recipe == nil || st.Recipe.Title != recipe.DefaultTitle {
		t.Errorf("Recipe = %+v", st.Recipe)
	}

	regions := s.Regions()
	if regions[0].ID != ing.ID || !reflect.DeepEqual(regions[0].RecognizedLines, []string{"w30"}) {
		t.Errorf("first region = %+v, want recognized w30", regions[0])
	}
}

func TestExtract_NoRegions(t *testing.T) {
	s := newSession(t, widthEngine, 100, 100, 0)

	if _, err := s.Extract(context.Background()); !errors.Is(err, extract.ErrNoRegions) {
		t.Errorf("error = %v, want ErrNoRegions", err)
	}
	if s.Busy() {
		t.Error("busy after failed Extract")
	}
}

func TestExtract_FailureLeavesModel(t *testing.T) {
	boom := errors.New("engine exploded")
	failing := ocr.EngineFunc(func(ctx context.Context, img image.Image) ([]ocr.Paragraph, error) {
		return nil, boom
	})
	s := newSession(t, failing, 400, 200, 0)
	draw(t, s, selection.Ingredient, 0, 0, 30, 10)
	draw(t, s, selection.Instruction, 0, 20, 40, 30)
	before := s.Regions()

	_, err := s.Extract(context.Background())
	if !errors.Is(err, boom) || !errors.Is(err, extract.ErrRecognition) {
		t.Fatalf("error = %v, want ErrRecognition wrapping the engine error", err)
	}

	if s.Busy() {
		t.Error("busy flag not cleared")
	}
	if after := s.Regions(); !reflect.DeepEqual(before, after) {
		t.Errorf("regions changed:\nbefore %+v\nafter  %+v", before, after)
	}
	st := s.Status()
	if st.Step != StepSelect || st.Recipe != nil {
		t.Errorf("Step = %v, Recipe = %+v; want select with no recipe", st.Step, st.Recipe)
	}

	// The session accepts input again
	draw(t, s, selection.Ingredient, 50, 50, 60, 60)
}

func TestExtract_BusyRejectsInput(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{}, 8)
	blocking := ocr.EngineFunc(func(ctx context.Context, img image.Image) ([]ocr.Paragraph, error) {
		started <- struct{}{}
		select {
		case <-release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		return []ocr.Paragraph{{Text: "2 eggs"}}, nil
	})
	s := newSession(t, blocking, 400, 200, 0)
	draw(t, s, selection.Ingredient, 0, 0, 30, 10)
	png := encodePNG(t, createPatternImage(50, 50))

	done := make(chan error, 1)
	go func() {
		_, err := s.Extract(context.Background())
		done <- err
	}()

	select {
	case <-started:
	case <-time.After(5 * time.Second):
		t.Fatal("extraction did not start")
	}

	if !s.Busy() {
		t.Error("expected busy during extraction")
	}
	if err := s.PointerDown(selection.ScreenPoint{X: 1, Y: 1}); !errors.Is(err, ErrBusy) {
		t.Errorf("PointerDown error = %v, want ErrBusy", err)
	}
	if _, err := s.DrawRegion(selection.ScreenPoint{}, selection.ScreenPoint{X: 5, Y: 5}); !errors.Is(err, ErrBusy) {
		t.Errorf("DrawRegion error = %v, want ErrBusy", err)
	}
	if err := s.ClearRegions(); !errors.Is(err, ErrBusy) {
		t.Errorf("ClearRegions error = %v, want ErrBusy", err)
	}
	if _, err := s.LoadImageBytes(png); !errors.Is(err, ErrBusy) {
		t.Errorf("LoadImageBytes error = %v, want ErrBusy", err)
	}
	if _, err := s.Extract(context.Background()); !errors.Is(err, ErrBusy) {
		t.Errorf("second Extract error = %v, want ErrBusy", err)
	}
	if _, err := s.Proceed(); !errors.Is(err, ErrBusy) {
		t.Errorf("Proceed error = %v, want ErrBusy", err)
	}

	close(release)
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Extract failed: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("extraction did not finish")
	}

	if s.Busy() {
		t.Error("busy after extraction finished")
	}
	if n := len(s.Regions()); n != 1 {
		t.Errorf("Regions = %d, want 1", n)
	}
}

func TestExtract_CanceledContextClearsBusy(t *testing.T) {
	blocking := ocr.EngineFunc(func(ctx context.Context, img image.Image) ([]ocr.Paragraph, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	s := newSession(t, blocking, 100, 100, 0)
	draw(t, s, selection.Ingredient, 0, 0, 30, 10)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if _, err := s.Extract(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("error = %v, want DeadlineExceeded", err)
	}
	if s.Busy() {
		t.Error("busy flag not cleared")
	}
}

func TestReExtract_KeepsTitleAndDetails(t *testing.T) {
	s := newSession(t, widthEngine, 400, 200, 0)
	draw(t, s, selection.Ingredient, 0, 0, 30, 10)
	draw(t, s, selection.Instruction, 0, 20, 40, 30)
	if _, err := s.Extract(context.Background()); err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if _, err := s.SetTitle("Pancakes"); err != nil {
		t.Fatalf("SetTitle failed: %v", err)
	}
	if _, err := s.SetDetails("10 min", "", "4"); err != nil {
		t.Fatalf("SetDetails failed: %v", err)
	}

	if _, err := s.Back(); err != nil {
		t.Fatalf("Back failed: %v", err)
	}
	draw(t, s, selection.Ingredient, 0, 40, 50, 50)
	if _, err := s.Extract(context.Background()); err != nil {
		t.Fatalf("second Extract failed: %v", err)
	}

	r := s.Recipe()
	if r.Title != "Pancakes" || r.PrepTime != "10 min" || r.Servings != "4" {
		t.Errorf("details lost: %+v", r)
	}
	if want := []string{"w30", "w50"}; !reflect.DeepEqual(r.Ingredients, want) {
		t.Errorf("Ingredients = %v, want %v", r.Ingredients, want)
	}
}

func TestProceedAndBack(t *testing.T) {
	s := newSession(t, widthEngine, 400, 200, 0)

	if _, err := s.Proceed(); !errors.Is(err, ErrNotExtracted) {
		t.Errorf("Proceed from select error = %v, want ErrNotExtracted", err)
	}

	draw(t, s, selection.Ingredient, 0, 0, 30, 10)
	if _, err := s.Extract(context.Background()); err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	// With every line removed, editing is not complete
	if _, err := s.EditLine(recipe.Ingredients, OpRemove, 0, ""); err != nil {
		t.Fatalf("EditLine failed: %v", err)
	}
	if _, err := s.Proceed(); !errors.Is(err, recipe.ErrNoLines) {
		t.Errorf("Proceed from edit error = %v, want ErrNoLines", err)
	}
	if _, err := s.EditLine(recipe.Instructions, OpAdd, 0, "Whisk"); err != nil {
		t.Fatalf("EditLine failed: %v", err)
	}

	for _, want := range []Step{StepDetails, StepPreview} {
		got, err := s.Proceed()
		if err != nil {
			t.Fatalf("Proceed failed: %v", err)
		}
		if got != want {
			t.Errorf("Proceed = %v, want %v", got, want)
		}
	}
	if _, err := s.Proceed(); !errors.Is(err, ErrLastStep) {
		t.Errorf("Proceed at preview error = %v, want ErrLastStep", err)
	}

	for _, want := range []Step{StepDetails, StepEdit, StepSelect} {
		got, err := s.Back()
		if err != nil {
			t.Fatalf("Back failed: %v", err)
		}
		if got != want {
			t.Errorf("Back = %v, want %v", got, want)
		}
	}
	if n := len(s.Regions()); n != 1 {
		t.Errorf("Regions after Back = %d, want 1", n)
	}
}

func TestDrawing_WrongStep(t *testing.T) {
	s := newSession(t, widthEngine, 400, 200, 0)
	draw(t, s, selection.Ingredient, 0, 0, 30, 10)
	if _, err := s.Extract(context.Background()); err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	if _, err := s.DrawRegion(selection.ScreenPoint{}, selection.ScreenPoint{X: 5, Y: 5}); !errors.Is(err, ErrWrongStep) {
		t.Errorf("DrawRegion at edit error = %v, want ErrWrongStep", err)
	}
	if _, err := s.Extract(context.Background()); !errors.Is(err, ErrWrongStep) {
		t.Errorf("Extract at edit error = %v, want ErrWrongStep", err)
	}
}

func TestEditLine(t *testing.T) {
	s := New(Options{Logger: quietLogger()})
	if _, err := s.EditLine(recipe.Ingredients, OpAdd, 0, "salt"); !errors.Is(err, ErrNotExtracted) {
		t.Errorf("error = %v, want ErrNotExtracted", err)
	}

	s = newSession(t, widthEngine, 400, 200, 0)
	draw(t, s, selection.Ingredient, 0, 0, 30, 10)
	if _, err := s.Extract(context.Background()); err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	tests := []struct {
		name  string
		op    LineOp
		index int
		text  string
		want  []string
	}{
		{"add", OpAdd, 0, "2 eggs", []string{"w30", "2 eggs"}},
		{"edit", OpEdit, 0, "1 cup flour", []string{"1 cup flour", "2 eggs"}},
		{"remove", OpRemove, 1, "", []string{"1 cup flour"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := s.EditLine(recipe.Ingredients, tt.op, tt.index, tt.text)
			if err != nil {
				t.Fatalf("EditLine failed: %v", err)
			}
			if !reflect.DeepEqual(r.Ingredients, tt.want) {
				t.Errorf("Ingredients = %v, want %v", r.Ingredients, tt.want)
			}
		})
	}

	if _, err := s.EditLine(recipe.Ingredients, OpEdit, 9, "x"); !errors.Is(err, recipe.ErrIndexOutOfRange) {
		t.Errorf("out of range error = %v, want ErrIndexOutOfRange", err)
	}
	if _, err := s.EditLine(recipe.Ingredients, LineOp("swap"), 0, "x"); err == nil {
		t.Error("expected error for unknown operation")
	}
}

func TestExport(t *testing.T) {
	s := newSession(t, widthEngine, 400, 200, 0)
	draw(t, s, selection.Ingredient, 0, 0, 30, 10)
	draw(t, s, selection.Instruction, 0, 20, 40, 30)
	if _, err := s.Extract(context.Background()); err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if _, err := s.SetTitle("Toast"); err != nil {
		t.Fatalf("SetTitle failed: %v", err)
	}

	path := filepath.Join(t.TempDir(), "toast.md")
	md, err := s.Export(path)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if !strings.HasPrefix(md, "# Toast\n") {
		t.Errorf("markdown does not start with the title:\n%s", md)
	}
	if !strings.Contains(md, "- w30\n") || !strings.Contains(md, "1. w40\n") {
		t.Errorf("markdown missing lines:\n%s", md)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(data) != md {
		t.Error("written file differs from returned markdown")
	}

	again, err := s.Markdown()
	if err != nil || again != md {
		t.Errorf("Markdown = %q, %v", again, err)
	}
}

func TestSuggestRegions_OCRNeedsDetector(t *testing.T) {
	s := newSession(t, widthEngine, 200, 100, 0)

	_, _, err := s.SuggestRegions(context.Background(), SuggestOptions{UseOCR: true})
	if !errors.Is(err, ErrNoDetector) {
		t.Errorf("error = %v, want ErrNoDetector", err)
	}
}

// blockEngine reports fixed text blocks
type blockEngine struct {
	ocr.EngineFunc
	blocks []ocr.Block
}

func (b blockEngine) DetectBlocks(ctx context.Context, img image.Image, minConfidence float64) ([]ocr.Block, error) {
	var out []ocr.Block
	for _, bl := range b.blocks {
		if bl.Confidence >= minConfidence {
			out = append(out, bl)
		}
	}
	return out, nil
}

func TestSuggestRegions_OCRBlocksClampedToImage(t *testing.T) {
	engine := blockEngine{
		EngineFunc: widthEngine,
		blocks: []ocr.Block{
			{Bounds: ocr.Bounds{X1: 350, Y1: 180, X2: 450, Y2: 260}, Confidence: 0.9},
			{Bounds: ocr.Bounds{X1: 500, Y1: 10, X2: 600, Y2: 40}, Confidence: 0.9},
		},
	}
	s := newSession(t, engine, 400, 200, 0)

	suggestions, _, err := s.SuggestRegions(context.Background(), SuggestOptions{UseOCR: true})
	if err != nil {
		t.Fatalf("SuggestRegions failed: %v", err)
	}
	if len(suggestions) != 1 {
		t.Fatalf("got %d suggestions, want 1", len(suggestions))
	}
	got := suggestions[0]
	if got.Origin != (selection.ImagePoint{X: 350, Y: 180}) || got.Extent != (selection.Extent{Width: 50, Height: 20}) {
		t.Errorf("suggestion = %+v, want origin (350,180) extent 50x20", got)
	}
}

func TestSuggestRegions_OCRCommit(t *testing.T) {
	engine := blockEngine{
		EngineFunc: widthEngine,
		blocks: []ocr.Block{
			{Bounds: ocr.Bounds{X1: 10, Y1: 10, X2: 110, Y2: 40}, Confidence: 0.9},
			{Bounds: ocr.Bounds{X1: 10, Y1: 60, X2: 210, Y2: 90}, Confidence: 0.8},
			{Bounds: ocr.Bounds{X1: 300, Y1: 10, X2: 310, Y2: 20}, Confidence: 0.1},
		},
	}
	s := newSession(t, engine, 400, 200, 200)

	suggestions, committed, err := s.SuggestRegions(context.Background(), SuggestOptions{
		UseOCR:        true,
		MinConfidence: 0.5,
		Commit:        true,
		Category:      selection.Instruction,
	})
	if err != nil {
		t.Fatalf("SuggestRegions failed: %v", err)
	}
	if len(suggestions) != 2 || len(committed) != 2 {
		t.Fatalf("got %d suggestions, %d committed; want 2, 2", len(suggestions), len(committed))
	}

	// Blocks are reported in image space, independent of the display scale
	first := committed[0]
	if first.Origin != (selection.ImagePoint{X: 10, Y: 10}) || first.Extent != (selection.Extent{Width: 100, Height: 30}) {
		t.Errorf("first region = %+v", first)
	}
	for _, r := range committed {
		if r.Category != selection.Instruction {
			t.Errorf("Category = %v, want instruction", r.Category)
		}
	}
	if n := len(s.Regions()); n != 2 {
		t.Errorf("model has %d regions, want 2", n)
	}
}

func TestSuggestRegions_EdgesWithoutCommit(t *testing.T) {
	s := newSession(t, widthEngine, 400, 200, 0)

	suggestions, committed, err := s.SuggestRegions(context.Background(), SuggestOptions{MinConfidence: 0.3})
	if err != nil {
		t.Fatalf("SuggestRegions failed: %v", err)
	}
	if committed != nil {
		t.Errorf("committed = %v, want nil", committed)
	}
	for _, sg := range suggestions {
		if sg.Extent.Width <= 0 || sg.Extent.Height <= 0 {
			t.Errorf("suggestion with empty extent: %+v", sg)
		}
	}
	if n := len(s.Regions()); n != 0 {
		t.Errorf("model has %d regions, want 0", n)
	}
}
