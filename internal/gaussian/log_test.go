package gaussian

import (
	"math"
	"strings"
	"testing"
)

const sampleLog = ` Charge =  0 Multiplicity = 1
                           ----------------------------
                           !    Initial Parameters    !
                           ----------------------------
 ! D1    D(1,2,3,4)          179.9000         -DE/DX =    0.0                 !
 ! D2    D(4,3,2,5)          -60.8352         -DE/DX =    0.0                 !
 Stoichiometry    C2H6O
                         Standard orientation:
 ---------------------------------------------------------------------
 Center     Atomic      Atomic             Coordinates (Angstroms)
 Number     Number       Type             X           Y           Z
 ---------------------------------------------------------------------
      1          6           0       -0.672507    0.000000    0.123400
      2          8           0        0.745000    0.100000   -0.200000
      3          1           0       -1.100000    0.900000    0.500000
 ---------------------------------------------------------------------
 SCF Done:  E(RB3LYP) =  -180.98012345     A.U. after    9 cycles
 Sum of electronic and thermal Enthalpies=           -180.845000
 Step number   1 out of a maximum of   20
         Item               Value     Threshold  Converged?
 Maximum Force            0.000090     0.000450     YES
 RMS     Force            0.000030     0.000300     YES
 Maximum Displacement     0.000900     0.001800     YES
 RMS     Displacement     0.000600     0.001200     YES
 Normal termination of Gaussian 16 at Mon Aug  3 10:00:00 2026.
`

func TestParseLog(t *testing.T) {
	log, err := ParseLog(strings.NewReader(sampleLog), "ethanol",
		LogOptions{Dihedrals: true, Convergence: true})
	if err != nil {
		t.Fatalf("ParseLog() error = %v", err)
	}

	if log.Charge != 0 || log.Multiplicity != 1 {
		t.Errorf("charge/mult = %d/%d, want 0/1", log.Charge, log.Multiplicity)
	}
	if log.Stoichiometry != "C2H6O" {
		t.Errorf("Stoichiometry = %q, want C2H6O", log.Stoichiometry)
	}
	if log.Energy == nil || *log.Energy != -180.98012345 {
		t.Errorf("Energy = %v, want -180.98012345", log.Energy)
	}
	if log.Enthalpy == nil || *log.Enthalpy != -180.845 {
		t.Errorf("Enthalpy = %v, want -180.845", log.Enthalpy)
	}

	if len(log.Atoms) != 3 {
		t.Fatalf("len(Atoms) = %d, want 3", len(log.Atoms))
	}
	if log.Atoms[0].Symbol != "C" || log.Atoms[1].Symbol != "O" || log.Atoms[2].Symbol != "H" {
		t.Errorf("atom symbols = %s %s %s, want C O H",
			log.Atoms[0].Symbol, log.Atoms[1].Symbol, log.Atoms[2].Symbol)
	}
	if log.Atoms[0].Coords.X != -0.672507 {
		t.Errorf("Atoms[0].X = %v", log.Atoms[0].Coords.X)
	}

	if len(log.Dihedrals) != 2 {
		t.Fatalf("Dihedrals = %v, want 2 entries", log.Dihedrals)
	}
	if got := log.Dihedrals["D(1,2,3,4)"]; got != 179.9 {
		t.Errorf("D(1,2,3,4) = %v, want 179.9", got)
	}

	// 0.2 + 0.1 + 0.5 + 0.5
	if math.Abs(log.Convergence-1.3) > 1e-9 {
		t.Errorf("Convergence = %v, want 1.3", log.Convergence)
	}
	if log.ConvergenceError {
		t.Error("ConvergenceError = true, want false")
	}
}

func TestParseLogStepConvergence(t *testing.T) {
	log, err := ParseLog(strings.NewReader(sampleLog), "ethanol",
		LogOptions{StepConvergence: true})
	if err != nil {
		t.Fatalf("ParseLog() error = %v", err)
	}
	if len(log.Steps) != 1 {
		t.Fatalf("len(Steps) = %d, want 1", len(log.Steps))
	}
	step := log.Steps[0]
	if step.Step != 1 {
		t.Errorf("Step = %d, want 1", step.Step)
	}
	if step.MaxForce != 0.00009 || step.RMSDisplacement != 0.0006 {
		t.Errorf("criteria = %+v", step)
	}
	if math.Abs(step.Convergence-1.3) > 1e-9 {
		t.Errorf("Convergence = %v, want 1.3", step.Convergence)
	}
}

const multiStepLog = ` Charge =  0 Multiplicity = 1
 Stoichiometry    CH4
 Center     Atomic      Atomic             Coordinates (Angstroms)
 Number     Number       Type             X           Y           Z
 ---------------------------------------------------------------------
      1          6           0        1.000000    0.000000    0.000000
 ---------------------------------------------------------------------
 SCF Done:  E(RB3LYP) =  -180.500000     A.U. after    9 cycles
 Step number   1 out of a maximum of   20
         Item               Value     Threshold  Converged?
 Maximum Force            0.000090     0.000450     YES
 RMS     Force            0.000030     0.000300     YES
 Maximum Displacement     0.000900     0.001800     YES
 RMS     Displacement     0.000600     0.001200     YES
 Center     Atomic      Atomic             Coordinates (Angstroms)
 Number     Number       Type             X           Y           Z
 ---------------------------------------------------------------------
      1          6           0        2.000000    0.000000    0.000000
 ---------------------------------------------------------------------
 SCF Done:  E(RB3LYP) =  -180.900000     A.U. after    9 cycles
 Step number   2 out of a maximum of   20
         Item               Value     Threshold  Converged?
 Maximum Force            0.000090     0.000450     YES
 RMS     Force            0.000030     0.000300     YES
 Maximum Displacement     0.000900     0.001800     YES
 RMS     Displacement     0.000600     0.001200     YES
 Center     Atomic      Atomic             Coordinates (Angstroms)
 Number     Number       Type             X           Y           Z
 ---------------------------------------------------------------------
      1          6           0        3.000000    0.000000    0.000000
 ---------------------------------------------------------------------
 SCF Done:  E(RB3LYP) =  -180.700000     A.U. after    9 cycles
 Step number   3 out of a maximum of   20
         Item               Value     Threshold  Converged?
 Maximum Force            0.000090     0.000450     YES
 RMS     Force            0.000030     0.000300     YES
 Maximum Displacement     0.000900     0.001800     YES
 RMS     Displacement     0.000600     0.001200     YES
 Normal termination of Gaussian 16 at Mon Aug  3 10:00:00 2026.
`

func TestParseLogLastGeometryWins(t *testing.T) {
	log, err := ParseLog(strings.NewReader(multiStepLog), "methane", LogOptions{})
	if err != nil {
		t.Fatalf("ParseLog() error = %v", err)
	}
	if log.Atoms[0].Coords.X != 3.0 {
		t.Errorf("Atoms[0].X = %v, want 3.0 (last step)", log.Atoms[0].Coords.X)
	}
	if log.Energy == nil || *log.Energy != -180.7 {
		t.Errorf("Energy = %v, want -180.7", log.Energy)
	}
}

func TestParseLogLowestEnergy(t *testing.T) {
	log, err := ParseLog(strings.NewReader(multiStepLog), "methane",
		LogOptions{LowestEnergy: true})
	if err != nil {
		t.Fatalf("ParseLog() error = %v", err)
	}
	if log.Atoms[0].Coords.X != 2.0 {
		t.Errorf("Atoms[0].X = %v, want 2.0 (lowest-energy step)", log.Atoms[0].Coords.X)
	}
	if log.Energy == nil || *log.Energy != -180.9 {
		t.Errorf("Energy = %v, want -180.9", log.Energy)
	}
}

func TestParseLogStopAtStep(t *testing.T) {
	log, err := ParseLog(strings.NewReader(multiStepLog), "methane",
		LogOptions{StepConvergence: true, LastStep: 2})
	if err != nil {
		t.Fatalf("ParseLog() error = %v", err)
	}
	if len(log.Steps) != 2 {
		t.Fatalf("len(Steps) = %d, want 2", len(log.Steps))
	}
	if log.Atoms[0].Coords.X != 2.0 {
		t.Errorf("Atoms[0].X = %v, want 2.0 (step 2 geometry)", log.Atoms[0].Coords.X)
	}
}

func TestParseLogTruncated(t *testing.T) {
	// Cut the file off inside the convergence table, as a killed job would.
	idx := strings.Index(sampleLog, "Maximum Displacement")
	log, err := ParseLog(strings.NewReader(sampleLog[:idx]), "ethanol",
		LogOptions{Convergence: true})
	if err != nil {
		t.Fatalf("ParseLog() error = %v", err)
	}
	if log.Energy == nil {
		t.Error("Energy lost from truncated output")
	}
	if len(log.Atoms) != 3 {
		t.Errorf("len(Atoms) = %d, want 3", len(log.Atoms))
	}
	if log.Convergence != 0 {
		t.Errorf("Convergence = %v from incomplete table, want 0", log.Convergence)
	}
}

func TestParseLogConvergenceOverflow(t *testing.T) {
	bad := strings.Replace(sampleLog, "Maximum Force            0.000090",
		"Maximum Force            ********", 1)
	log, err := ParseLog(strings.NewReader(bad), "ethanol", LogOptions{Convergence: true})
	if err != nil {
		t.Fatalf("ParseLog() error = %v", err)
	}
	if !log.ConvergenceError {
		t.Error("ConvergenceError = false for overflowed criterion")
	}
	if log.Convergence < overflowPenalty {
		t.Errorf("Convergence = %v, want at least %v", log.Convergence, overflowPenalty)
	}
}

func TestParseLogNotGaussian(t *testing.T) {
	if _, err := ParseLog(strings.NewReader("hello\nworld\n"), "x", LogOptions{}); err == nil {
		t.Error("ParseLog() accepted non-Gaussian text")
	}
}

func TestClassifyTermination(t *testing.T) {
	tests := []struct {
		lastLine string
		want     TerminationStatus
	}{
		{" Normal termination of Gaussian 16 at Mon Aug  3 10:00:00 2026.", StatusCompleted},
		{"NtrErr Called from FileIO.", StatusFailed},
		{"In source file rdcard.F, at line 123", StatusFailed},
		{"open-new-file: cannot open scratch file", StatusFailed},
		{"File lengths (MBytes):  RWF=     42", StatusFailed},
		{" SCF Done:  E(RB3LYP) =  -180.98  A.U.", StatusRunning},
		{"", StatusRunning},
	}
	for _, tt := range tests {
		if got := ClassifyTermination(tt.lastLine); got != tt.want {
			t.Errorf("ClassifyTermination(%q) = %v, want %v", tt.lastLine, got, tt.want)
		}
	}
}
