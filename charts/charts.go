package charts

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/egyoss/insights-backend/model"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// DefaultPalette used when the caller does not provide colors
var DefaultPalette = []color.Color{
	color.RGBA{R: 70, G: 130, B: 180, A: 255},
	color.RGBA{R: 178, G: 34, B: 34, A: 255},
	color.RGBA{R: 60, G: 179, B: 113, A: 255},
	color.RGBA{R: 218, G: 165, B: 32, A: 255},
}

// BarOptions control the appearance of the bar charts
type BarOptions struct {
	Title    string        // overrides the generated title when set
	Rotation float64       // x tick label rotation in radians
	Colors   []color.Color // only the first color is used, bars share it
}

// HistOptions control the appearance of the histogram tiles
type HistOptions struct {
	Bins   int
	Colors []color.Color // one per column, falls back to the default palette
	Width  vg.Length
	Height vg.Length
}

// BarPlot draws a bar chart of the counts per feature value with a
// percentage-of-total label above each bar
func BarPlot(rows []model.FeatureCount, feature string, opts BarOptions) (*plot.Plot, error) {
	p := plot.New()

	p.Title.Text = opts.Title
	if p.Title.Text == "" {
		p.Title.Text = "Repositories Per " + titleCase(feature)
	}

	p.Title.TextStyle.Font.Size = vg.Points(16)
	p.X.Label.Text = titleCase(feature)
	p.Y.Label.Text = "Count"

	values := make(plotter.Values, len(rows))
	labels := make([]string, len(rows))
	total := 0

	for i, row := range rows {
		values[i] = float64(row.Count)
		labels[i] = row.Feature
		total += row.Count
	}

	bars, err := plotter.NewBarChart(values, vg.Points(20))

	if err != nil {
		return nil, err
	}

	bars.LineStyle.Width = vg.Length(0)
	bars.Color = barColor(opts.Colors)

	p.Add(bars)
	p.NominalX(labels...)

	rotation := opts.Rotation
	if rotation == 0 {
		rotation = math.Pi / 2
	}

	p.X.Tick.Label.Rotation = rotation
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter

	if total > 0 {
		annotations := make(plotter.XYs, len(rows))
		percentages := make([]string, len(rows))

		for i, row := range rows {
			annotations[i] = plotter.XY{X: float64(i), Y: float64(row.Count)}
			percentages[i] = fmt.Sprintf("%.1f%%", float64(row.Count)/float64(total)*100)
		}

		percentageLabels, err := plotter.NewLabels(plotter.XYLabels{
			XYs:    annotations,
			Labels: percentages,
		})

		if err != nil {
			return nil, err
		}

		p.Add(percentageLabels)
	}

	p.Add(plotter.NewGrid())
	return p, nil
}

// Histograms draws one histogram per requested numeric column, tiled
// side by side on a single canvas, and writes the result as PNG
func Histograms(repos []model.GithubRepository, columns []string, opts HistOptions, w io.Writer) error {
	if len(columns) == 0 {
		return fmt.Errorf("UNKNOWN_FEATURE")
	}

	bins := opts.Bins
	if bins <= 0 {
		bins = 10
	}

	width := opts.Width
	if width == 0 {
		width = 15 * vg.Inch
	}

	height := opts.Height
	if height == 0 {
		height = 4 * vg.Inch
	}

	plots := make([]*plot.Plot, len(columns))

	for i, column := range columns {
		values := make(plotter.Values, 0, len(repos))

		for _, repo := range repos {
			value, err := repo.MetricValue(column)

			if err != nil {
				return err
			}

			values = append(values, value)
		}

		p := plot.New()
		p.Title.Text = "Distribution of " + titleCase(column)
		p.X.Label.Text = "Number of " + column
		p.Y.Label.Text = "Frequency"

		hist, err := plotter.NewHist(values, bins)

		if err != nil {
			return err
		}

		hist.FillColor = histColor(opts.Colors, i)
		p.Add(hist)

		plots[i] = p
	}

	img := vgimg.New(width, height)
	dc := draw.New(img)

	tiles := draw.Tiles{
		Rows: 1,
		Cols: len(columns),
		PadX: vg.Millimeter * 2,
		PadY: vg.Millimeter * 2,
	}

	canvases := plot.Align([][]*plot.Plot{plots}, tiles, dc)

	for i, p := range plots {
		p.Draw(canvases[0][i])
	}

	png := vgimg.PngCanvas{Canvas: img}
	_, err := png.WriteTo(w)
	return err
}

// TopRankedRepos keeps the n repositories with the highest value for the
// chosen numeric feature and draws a bar chart of them. The kept rows are
// returned so callers can inspect them.
func TopRankedRepos(repos []model.GithubRepository, feature string, n int, opts BarOptions) ([]model.GithubRepository, *plot.Plot, error) {
	// validate the feature up front so the error does not depend on the input size
	if _, err := (model.GithubRepository{}).MetricValue(feature); err != nil {
		return nil, nil, err
	}

	top := make([]model.GithubRepository, len(repos))
	copy(top, repos)

	sort.SliceStable(top, func(i, j int) bool {
		vi, _ := top[i].MetricValue(feature)
		vj, _ := top[j].MetricValue(feature)
		return vi > vj
	})

	if n > 0 && len(top) > n {
		top = top[:n]
	}

	p := plot.New()

	p.Title.Text = opts.Title
	if p.Title.Text == "" {
		p.Title.Text = fmt.Sprintf("Top %d Repositories By %s", len(top), titleCase(feature))
	}

	p.Title.TextStyle.Font.Size = vg.Points(16)
	p.X.Label.Text = "Repository Name"
	p.Y.Label.Text = titleCase(feature)

	values := make(plotter.Values, len(top))
	labels := make([]string, len(top))

	for i, repo := range top {
		value, _ := repo.MetricValue(feature)
		values[i] = value
		labels[i] = repo.Repository
	}

	bars, err := plotter.NewBarChart(values, vg.Points(20))

	if err != nil {
		return nil, nil, err
	}

	bars.LineStyle.Width = vg.Length(0)
	bars.Color = barColor(opts.Colors)

	p.Add(bars)
	p.NominalX(labels...)

	rotation := opts.Rotation
	if rotation == 0 {
		rotation = math.Pi / 4
	}

	p.X.Tick.Label.Rotation = rotation
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter

	return top, p, nil
}

// WritePNG renders a plot as a PNG image to the given writer
func WritePNG(p *plot.Plot, width, height vg.Length, w io.Writer) error {
	writerTo, err := p.WriterTo(width, height, "png")

	if err != nil {
		return err
	}

	_, err = writerTo.WriteTo(w)
	return err
}

func barColor(colors []color.Color) color.Color {
	if len(colors) > 0 {
		return colors[0]
	}
	return DefaultPalette[0]
}

func histColor(colors []color.Color, i int) color.Color {
	if len(colors) > i {
		return colors[i]
	}
	return DefaultPalette[i%len(DefaultPalette)]
}

// titleCase capitalizes every word of a feature name, underscores count
// as word separators ("open_issues" -> "Open Issues")
func titleCase(feature string) string {
	words := strings.Fields(strings.ReplaceAll(feature, "_", " "))

	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}

	return strings.Join(words, " ")
}
