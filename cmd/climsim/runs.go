package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/climsim/internal/export"
	"github.com/san-kum/climsim/internal/globe"
	"github.com/san-kum/climsim/internal/storage"
)

func listRuns(_ *cobra.Command, _ []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tSTEPS\tDT\tINTEG\tCO2\tT0\tT1")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%.3f\t%s\t%g\t%.2f\t%.2f\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Steps,
			run.Dt,
			run.Integrator,
			run.Params.CO2,
			run.InitialTemperature,
			run.FinalTemperature,
		)
	}

	return w.Flush()
}

func plotRun(_ *cobra.Command, args []string) error {
	doc, err := export.Load(storage.New(dataDir), args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", doc.Run.ID)
	fmt.Printf("samples: %d\n\n", len(doc.Samples))

	graph, err := export.Plot(doc, plotColumns, plotWidth, plotHeight)
	if err != nil {
		return err
	}
	fmt.Println(graph)
	return nil
}

func exportCSV(_ *cobra.Command, args []string) error {
	doc, err := export.Load(storage.New(dataDir), args[0])
	if err != nil {
		return err
	}
	if len(doc.Samples) == 0 {
		return fmt.Errorf("no data to export")
	}
	return export.WriteCSV(os.Stdout, doc)
}

func exportJSON(_ *cobra.Command, args []string) error {
	doc, err := export.Load(storage.New(dataDir), args[0])
	if err != nil {
		return err
	}
	return export.WriteJSON(os.Stdout, doc)
}

// exportSVG draws either one sample column or the globe as it looked at
// the end of the run.
func exportSVG(_ *cobra.Command, args []string) error {
	doc, err := export.Load(storage.New(dataDir), args[0])
	if err != nil {
		return err
	}

	var out string
	if svgGlobe {
		g := globe.New(svgWidth/8, svgHeight/16)
		g.Apply(globe.View{
			Temperature: doc.Run.FinalTemperature,
			CO2:         doc.Run.FinalParams.CO2,
			ForestCover: doc.Run.FinalParams.ForestCover,
		})
		out = export.CanvasToSVG(g.Frame(), 4)
	} else {
		out, err = export.SVG(doc, svgColumn, svgWidth, svgHeight)
		if err != nil {
			return err
		}
	}

	var w io.Writer = os.Stdout
	if svgOutput != "" {
		f, err := os.Create(svgOutput)
		if err != nil {
			return fmt.Errorf("create %s: %w", svgOutput, err)
		}
		defer f.Close()
		w = f
	}
	if _, err := io.WriteString(w, out); err != nil {
		return err
	}
	if svgOutput != "" {
		fmt.Fprintf(os.Stderr, "wrote %s\n", svgOutput)
	}
	return nil
}
