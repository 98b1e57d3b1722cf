package solver

import (
	"bufio"
	"fmt"
	"io"
	"math"

	"github.com/sverzijl/planning-latest-sub005/pkg/application/services/model"
)

// WriteLP serializes a model in CPLEX LP format. Output is deterministic for
// a given model: variables in declaration order, constraints in insertion
// order.
func WriteLP(w io.Writer, m *model.Model) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "\\ %s (%s phase)\n", m.Name, m.Phase)
	fmt.Fprintln(bw, "Minimize")

	obj := m.GetObjective()
	if len(obj.Terms) == 0 {
		fmt.Fprintln(bw, " obj: 0")
	} else {
		fmt.Fprint(bw, " obj:")
		writeTerms(bw, obj.Terms)
		fmt.Fprintln(bw)
	}

	fmt.Fprintln(bw, "Subject To")
	for _, c := range m.Constraints() {
		fmt.Fprintf(bw, " %s:", c.Name)
		writeTerms(bw, c.Terms)
		fmt.Fprintf(bw, " %s %s\n", c.Op, formatNum(c.RHS))
	}

	fmt.Fprintln(bw, "Bounds")
	for _, v := range m.Variables() {
		if v.Kind == model.Binary {
			continue
		}
		switch {
		case v.Lower == 0 && math.IsInf(v.Upper, 1):
			// Default bounds need no line.
		case math.IsInf(v.Upper, 1):
			fmt.Fprintf(bw, " %s >= %s\n", v.Key.Name(), formatNum(v.Lower))
		case v.Lower == 0:
			fmt.Fprintf(bw, " %s <= %s\n", v.Key.Name(), formatNum(v.Upper))
		default:
			fmt.Fprintf(bw, " %s <= %s <= %s\n", formatNum(v.Lower), v.Key.Name(), formatNum(v.Upper))
		}
	}

	var binaries, generals []string
	for _, v := range m.Variables() {
		switch v.Kind {
		case model.Binary:
			binaries = append(binaries, v.Key.Name())
		case model.Integer:
			generals = append(generals, v.Key.Name())
		}
	}
	if len(binaries) > 0 {
		fmt.Fprintln(bw, "Binaries")
		for _, name := range binaries {
			fmt.Fprintf(bw, " %s\n", name)
		}
	}
	if len(generals) > 0 {
		fmt.Fprintln(bw, "Generals")
		for _, name := range generals {
			fmt.Fprintf(bw, " %s\n", name)
		}
	}

	fmt.Fprintln(bw, "End")
	return bw.Flush()
}

// WriteWarmStart serializes a warm-start assignment as name/value lines,
// restricted to keys the model declares.
func WriteWarmStart(w io.Writer, m *model.Model, hints model.Assignment) error {
	bw := bufio.NewWriter(w)
	for _, v := range m.Variables() {
		if x, ok := hints[v.Key]; ok {
			fmt.Fprintf(bw, "%s %s\n", v.Key.Name(), formatNum(x))
		}
	}
	return bw.Flush()
}

func writeTerms(w io.Writer, terms []model.Term) {
	for i, t := range terms {
		coef := t.Coef
		switch {
		case i == 0 && coef >= 0:
			fmt.Fprintf(w, " %s %s", formatNum(coef), t.Key.Name())
		case coef >= 0:
			fmt.Fprintf(w, " + %s %s", formatNum(coef), t.Key.Name())
		default:
			fmt.Fprintf(w, " - %s %s", formatNum(-coef), t.Key.Name())
		}
	}
}

func formatNum(x float64) string {
	if x == math.Trunc(x) && math.Abs(x) < 1e15 {
		return fmt.Sprintf("%d", int64(x))
	}
	return fmt.Sprintf("%g", x)
}
