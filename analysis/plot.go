package analysis

import (
	"os"
	"path"
	"strconv"

	"github.com/rs/zerolog"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/banditlab/mabsim/core"
)

// PlotComparator renders the cumulative-reward curves of a comparison: one
// PNG with linear and log-scale panels side by side, and one PNG with the
// linear curve alone.
type PlotComparator struct {
	savePath string
	logger   zerolog.Logger
}

var _ core.Comparator = &PlotComparator{}

func NewPlotComparator(savePath string, logger zerolog.Logger) *PlotComparator {
	return &PlotComparator{
		savePath: savePath,
		logger:   logger,
	}
}

func (c *PlotComparator) Compare(experimentNames []string, datasets []core.DataSet) {
	curves := make(map[string][]float64)
	for i, name := range experimentNames {
		if datasets[i] == nil {
			continue
		}
		d := datasets[i].(*rewardDataSet)
		curves[name] = d.Cumulative
	}
	if len(curves) == 0 {
		return
	}

	if err := c.plotPanels(experimentNames, curves); err != nil {
		c.logger.Error().Err(err).Msg("failed to render reward panels")
	}
	if err := c.plotCumulative(experimentNames, curves); err != nil {
		c.logger.Error().Err(err).Msg("failed to render cumulative reward plot")
	}
}

func (c *PlotComparator) plotPanels(experimentNames []string, curves map[string][]float64) error {
	linear := newCurvePlot("Cumulative Reward", false)
	logScale := newCurvePlot("Cumulative Reward (log scale)", true)
	for _, name := range experimentNames {
		curve, ok := curves[name]
		if !ok {
			continue
		}
		if err := plotutil.AddLines(linear, name, curveXYs(curve, false)); err != nil {
			return err
		}
		logXYs := curveXYs(curve, true)
		if len(logXYs) == 0 {
			continue
		}
		if err := plotutil.AddLines(logScale, name, logXYs); err != nil {
			return err
		}
	}

	img := vgimg.New(12*vg.Inch, 5*vg.Inch)
	dc := draw.New(img)
	tiles := draw.Tiles{Rows: 1, Cols: 2, PadX: vg.Millimeter, PadY: vg.Millimeter}
	canvases := plot.Align([][]*plot.Plot{{linear, logScale}}, tiles, dc)
	linear.Draw(canvases[0][0])
	logScale.Draw(canvases[0][1])

	return savePNG(path.Join(c.savePath, "cumulative_reward.png"), img)
}

func (c *PlotComparator) plotCumulative(experimentNames []string, curves map[string][]float64) error {
	p := newCurvePlot("Cumulative Reward", false)
	p.Title.Text = "Cumulative Rewards"
	for _, name := range experimentNames {
		curve, ok := curves[name]
		if !ok {
			continue
		}
		if err := plotutil.AddLines(p, name, curveXYs(curve, false)); err != nil {
			return err
		}
	}
	out := path.Join(c.savePath, "cumulative_rewards.png")
	if err := os.MkdirAll(path.Dir(out), 0755); err != nil {
		return err
	}
	return p.Save(8*vg.Inch, 5*vg.Inch, out)
}

func newCurvePlot(yLabel string, logScale bool) *plot.Plot {
	p := plot.New()
	p.X.Label.Text = "Trials"
	p.Y.Label.Text = yLabel
	p.Legend.Top = true
	p.Legend.Left = true
	if logScale {
		p.Y.Scale = plot.LogScale{}
		p.Y.Tick.Marker = plot.LogTicks{Prec: -1}
	}
	return p
}

// curveXYs turns a cumulative curve into plot points. Log-scaled axes cannot
// hold non-positive values, so those points are dropped there.
func curveXYs(curve []float64, logScale bool) plotter.XYs {
	xys := make(plotter.XYs, 0, len(curve))
	for i, v := range curve {
		if logScale && v <= 0 {
			continue
		}
		xys = append(xys, plotter.XY{X: float64(i), Y: v})
	}
	return xys
}

func savePNG(p string, img *vgimg.Canvas) error {
	if err := os.MkdirAll(path.Dir(p), 0755); err != nil {
		return err
	}
	file, err := os.Create(p)
	if err != nil {
		return err
	}
	defer file.Close()

	png := vgimg.PngCanvas{Canvas: img}
	_, err = png.WriteTo(file)
	return err
}

type PlotComparatorConstructor struct {
	savePath string
	logger   zerolog.Logger
}

var _ core.ComparatorConstructor = &PlotComparatorConstructor{}

func NewPlotComparatorConstructor(savePath string, logger zerolog.Logger) *PlotComparatorConstructor {
	return &PlotComparatorConstructor{
		savePath: savePath,
		logger:   logger,
	}
}

func (c *PlotComparatorConstructor) NewComparator(run int) core.Comparator {
	return NewPlotComparator(path.Join(c.savePath, strconv.Itoa(run)), c.logger)
}
