package store

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/san-kum/pendulab/internal/experiment"
	"github.com/san-kum/pendulab/internal/sim"
)

// Sample is one exported frame.
type Sample struct {
	Frame   int     `json:"frame"`
	Time    float64 `json:"time"`
	Mode    string  `json:"mode"`
	Theta   float64 `json:"theta"`
	Omega   float64 `json:"omega"`
	PivotX  float64 `json:"pivot_x"`
	BobX    float64 `json:"bob_x"`
	BobY    float64 `json:"bob_y"`
	Damping float64 `json:"damping"`
	Energy  float64 `json:"energy"`
}

type ExportData struct {
	Preset     string             `json:"preset"`
	Integrator string             `json:"integrator"`
	Dt         float64            `json:"dt"`
	Duration   float64            `json:"duration"`
	Steps      int                `json:"steps"`
	Metrics    map[string]float64 `json:"metrics"`
	Model      map[string]float64 `json:"model"`
	Samples    []Sample           `json:"samples"`
}

var csvHeader = []string{"frame", "time", "mode", "theta", "omega", "pivot_x", "bob_x", "bob_y", "damping", "energy"}

func NewSample(rs sim.RenderState) Sample {
	return Sample{
		Frame:   rs.Frame,
		Time:    rs.Time,
		Mode:    rs.Mode.String(),
		Theta:   rs.Theta,
		Omega:   rs.Omega,
		PivotX:  rs.Pivot.X,
		BobX:    rs.Bob.X,
		BobY:    rs.Bob.Y,
		Damping: rs.Damping,
		Energy:  rs.Energy,
	}
}

func NewExport(preset string, result *experiment.Result) ExportData {
	data := ExportData{
		Preset:     preset,
		Integrator: result.Integrator,
		Dt:         result.Dt,
		Steps:      len(result.Frames),
		Metrics:    result.Metrics,
		Model:      result.Model,
		Samples:    make([]Sample, len(result.Frames)),
	}
	for i, rs := range result.Frames {
		data.Samples[i] = NewSample(rs)
	}
	if n := len(result.Frames); n > 0 {
		data.Duration = result.Frames[n-1].Time
	}
	return data
}

func WriteJSON(w io.Writer, data ExportData) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func WriteCSV(w io.Writer, frames []sim.RenderState) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	f := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	for _, rs := range frames {
		s := NewSample(rs)
		row := []string{
			strconv.Itoa(s.Frame), f(s.Time), s.Mode, f(s.Theta), f(s.Omega),
			f(s.PivotX), f(s.BobX), f(s.BobY), f(s.Damping), f(s.Energy),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
