package gaussian

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/team-mayes/gaussian-wrangler/internal/utils"
)

// Patterns anchoring the sections of a Gaussian output file. Matching is
// against whitespace-trimmed lines.
var (
	logChargeRe = regexp.MustCompile(`^Charge =`)
	logCoordRe  = regexp.MustCompile(`^Center {5}Atomic {6}Atomic {13}Coordinates`)
	logSepRe    = regexp.MustCompile(`^-{60,}`)
	logEnergyRe = regexp.MustCompile(`^SCF Done:`)
	logStoichRe = regexp.MustCompile(`^Stoichiometry`)
	logDihRe    = regexp.MustCompile(`^! D`)
	logEnthRe   = regexp.MustCompile(`^Sum of electronic and thermal Enthalpies`)
	logStepRe   = regexp.MustCompile(`^Step number`)
	logConvRe   = regexp.MustCompile(`^Item {15}Value {5}Threshold {2}Converged\?`)
)

// Convergence penalty used when Gaussian prints "********" in place of a
// value too large for its field.
const (
	overflowValue   = 9.999999
	overflowPenalty = 2000.0
)

// StepConvergence is the convergence record of one optimization step. The
// Convergence score is the sum of each criterion divided by its threshold;
// below 4.0 every criterion has been met.
type StepConvergence struct {
	Step             int
	MaxForce         float64
	RMSForce         float64
	MaxDisplacement  float64
	RMSDisplacement  float64
	Convergence      float64
	ConvergenceError bool
}

// LogOptions selects the optional sections to collect while parsing.
type LogOptions struct {
	Dihedrals       bool
	Convergence     bool
	StepConvergence bool
	LastStep        int  // with StepConvergence, stop after this step (0 reads all)
	LowestEnergy    bool // keep the lowest-energy geometry instead of the last
}

// LogFile is a parsed Gaussian output file. Atoms holds the geometry of the
// last step read. Energy and Enthalpy are nil when the corresponding lines
// never appeared.
type LogFile struct {
	BaseName         string
	Charge           int
	Multiplicity     int
	Stoichiometry    string
	Energy           *float64
	Enthalpy         *float64
	Atoms            []Atom
	Dihedrals        map[string]float64
	Convergence      float64
	ConvergenceError bool
	Steps            []StepConvergence
}

// ParseLogFile reads and parses a Gaussian output file from disk.
func ParseLogFile(path string, opts LogOptions) (*LogFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseLog(f, utils.BaseNameNoExt(path), opts)
}

// ParseLog parses Gaussian output from r. Truncated files are not an error:
// parsing returns everything collected before the output ran out, so a log
// from a running or killed job yields its completed steps.
func ParseLog(r io.Reader, baseName string, opts LogOptions) (*LogFile, error) {
	log := &LogFile{BaseName: baseName}

	var lines []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, strings.TrimSpace(scanner.Text()))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	i := seek(lines, 0, logChargeRe)
	if i == len(lines) {
		return nil, fmt.Errorf("%s: no charge and multiplicity found; not Gaussian output", baseName)
	}
	// "Charge =  0 Multiplicity = 1"
	parts := strings.Split(lines[i], "=")
	if len(parts) < 3 {
		return nil, fmt.Errorf("%s: malformed charge line %q", baseName, lines[i])
	}
	charge, err1 := strconv.Atoi(strings.Fields(parts[1])[0])
	mult, err2 := strconv.Atoi(strings.Fields(parts[2])[0])
	if err1 != nil || err2 != nil {
		return nil, fmt.Errorf("%s: malformed charge line %q", baseName, lines[i])
	}
	log.Charge, log.Multiplicity = charge, mult
	i++

	var bestAtoms []Atom
	var bestEnergy float64
	finish := func() *LogFile {
		if opts.LowestEnergy && bestAtoms != nil {
			log.Atoms = bestAtoms
			e := bestEnergy
			log.Energy = &e
		}
		return log
	}

	// One iteration per optimization step. Each step overwrites the geometry,
	// so the last complete step wins. Running off the end of lines at any
	// point means the output was truncated there; return what was collected.
	for i < len(lines) {
		// Stoichiometry is part of the scan: on some job types it is the
		// first marker of a step, before any dihedral table or coordinates.
		i = seek(lines, i, logDihRe, logCoordRe, logStoichRe)
		if i == len(lines) {
			return finish(), nil
		}

		if logDihRe.MatchString(lines[i]) {
			dihes := make(map[string]float64)
			for i < len(lines) && logDihRe.MatchString(lines[i]) {
				// "! D8    D(3,1,4,9)    -60.8352    -DE/DX = 0.0 !"
				fields := strings.Fields(lines[i])
				if len(fields) < 4 {
					return nil, fmt.Errorf("%s: malformed dihedral line %q", baseName, lines[i])
				}
				val, err := strconv.ParseFloat(fields[3], 64)
				if err != nil {
					return nil, fmt.Errorf("%s: malformed dihedral line %q", baseName, lines[i])
				}
				dihes[fields[2]] = val
				i++
			}
			if opts.Dihedrals {
				log.Dihedrals = dihes
			}
		}

		// Stoichiometry precedes coordinates on the first step of some job
		// types and follows them on others.
		i = seek(lines, i, logCoordRe, logStoichRe)
		if i == len(lines) {
			return finish(), nil
		}
		if logStoichRe.MatchString(lines[i]) {
			log.Stoichiometry = strings.Fields(lines[i])[1]
			i = seek(lines, i, logCoordRe)
		}
		i += 3 // coordinate header plus two rule lines
		if i >= len(lines) {
			return finish(), nil
		}

		var atoms []Atom
		for i < len(lines) && !logSepRe.MatchString(lines[i]) {
			atom, err := parseLogAtom(lines[i])
			if err != nil {
				return nil, fmt.Errorf("%s: %v", baseName, err)
			}
			atoms = append(atoms, atom)
			i++
		}
		log.Atoms = atoms

		if log.Stoichiometry == "" {
			i = seek(lines, i, logStoichRe)
			if i == len(lines) {
				return finish(), nil
			}
			log.Stoichiometry = strings.Fields(lines[i])[1]
			i++
		}

		i = seek(lines, i, logEnergyRe, logEnthRe)
		if i == len(lines) {
			return finish(), nil
		}
		if logEnergyRe.MatchString(lines[i]) {
			// "SCF Done:  E(RB3LYP) =  -180.980 A.U. after  9 cycles"
			parts := strings.Split(lines[i], "=")
			if len(parts) < 2 {
				return nil, fmt.Errorf("%s: malformed energy line %q", baseName, lines[i])
			}
			e, err := strconv.ParseFloat(strings.Fields(parts[1])[0], 64)
			if err != nil {
				return nil, fmt.Errorf("%s: malformed energy line %q", baseName, lines[i])
			}
			log.Energy = &e
			if opts.LowestEnergy && (bestAtoms == nil || e < bestEnergy) {
				bestEnergy = e
				bestAtoms = atoms
			}
			i++
		}

		// In frequency jobs the thermochemistry arrives before the next step
		// number; in plain optimizations it never arrives at all.
		i = seek(lines, i, logEnthRe, logStepRe)
		if i == len(lines) {
			return finish(), nil
		}
		if logEnthRe.MatchString(lines[i]) {
			parts := strings.Split(lines[i], "=")
			h, err := strconv.ParseFloat(strings.TrimSpace(parts[len(parts)-1]), 64)
			if err != nil {
				return nil, fmt.Errorf("%s: malformed enthalpy line %q", baseName, lines[i])
			}
			log.Enthalpy = &h
			i++
		}

		stepNum := 0
		if opts.StepConvergence {
			i = seek(lines, i, logStepRe)
			if i == len(lines) {
				return finish(), nil
			}
			fields := strings.Fields(lines[i])
			if len(fields) < 3 {
				return nil, fmt.Errorf("%s: malformed step line %q", baseName, lines[i])
			}
			stepNum, err1 = strconv.Atoi(fields[2])
			if err1 != nil {
				return nil, fmt.Errorf("%s: malformed step line %q", baseName, lines[i])
			}
			i++
		}

		if opts.Convergence || opts.StepConvergence {
			i = seek(lines, i, logConvRe)
			if i+4 >= len(lines) {
				return finish(), nil
			}
			step, err := parseConvergence(lines[i+1 : i+5])
			if err != nil {
				return nil, fmt.Errorf("%s: %v", baseName, err)
			}
			i += 5

			if opts.StepConvergence {
				// Restarted jobs repeat step numbers; renumber past the last
				// recorded step so every record stays addressable.
				if n := len(log.Steps); n > 0 && containsStep(log.Steps, stepNum) {
					stepNum = log.Steps[n-1].Step + 1
				}
				step.Step = stepNum
				log.Steps = append(log.Steps, step)
				if opts.LastStep > 0 && stepNum == opts.LastStep {
					return finish(), nil
				}
			} else {
				log.Convergence = step.Convergence
				log.ConvergenceError = step.ConvergenceError
			}
		}
	}

	return finish(), nil
}

// parseConvergence reads the four criterion rows below an Item/Value table
// header: maximum force, RMS force, maximum displacement, RMS displacement.
func parseConvergence(rows []string) (StepConvergence, error) {
	var step StepConvergence
	targets := [4]*float64{
		&step.MaxForce, &step.RMSForce, &step.MaxDisplacement, &step.RMSDisplacement,
	}
	for i, row := range rows {
		fields := strings.Fields(row)
		if len(fields) < 4 {
			return step, fmt.Errorf("malformed convergence row %q", row)
		}
		value, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			if !strings.Contains(fields[2], "****") {
				return step, fmt.Errorf("malformed convergence row %q", row)
			}
			// Value overflowed Gaussian's field width; it is enormous.
			*targets[i] = overflowValue
			step.Convergence += overflowPenalty
			step.ConvergenceError = true
			continue
		}
		threshold, err := strconv.ParseFloat(fields[3], 64)
		if err != nil {
			return step, fmt.Errorf("malformed convergence row %q", row)
		}
		*targets[i] = value
		ratio := value / threshold
		if ratio > 1.0 {
			step.ConvergenceError = true
		}
		step.Convergence += ratio
	}
	return step, nil
}

// parseLogAtom reads one row of a coordinate block:
// "1   6   0   -0.123   0.456   0.789" (center, atomic number, type, x, y, z).
func parseLogAtom(line string) (Atom, error) {
	fields := strings.Fields(line)
	if len(fields) < 6 {
		return Atom{}, fmt.Errorf("malformed coordinate line %q", line)
	}
	num, err := strconv.Atoi(fields[1])
	if err != nil {
		return Atom{}, fmt.Errorf("malformed coordinate line %q", line)
	}
	symbol, err := SymbolForNumber(num)
	if err != nil {
		return Atom{}, fmt.Errorf("coordinate line %q: %v", line, err)
	}
	var coords [3]float64
	for i := 0; i < 3; i++ {
		v, err := strconv.ParseFloat(fields[i+3], 64)
		if err != nil {
			return Atom{}, fmt.Errorf("malformed coordinate line %q", line)
		}
		coords[i] = v
	}
	return Atom{
		Symbol: symbol,
		Coords: r3.Vec{X: coords[0], Y: coords[1], Z: coords[2]},
	}, nil
}

// seek advances from i to the next line matching any of the patterns, or
// len(lines).
func seek(lines []string, i int, res ...*regexp.Regexp) int {
	for ; i < len(lines); i++ {
		for _, re := range res {
			if re.MatchString(lines[i]) {
				return i
			}
		}
	}
	return i
}

func containsStep(steps []StepConvergence, n int) bool {
	for _, s := range steps {
		if s.Step == n {
			return true
		}
	}
	return false
}
