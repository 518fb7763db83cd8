package cell_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/fcell/internal/cell"
	"github.com/san-kum/fcell/internal/ode"
)

var _ = Describe("Stack", func() {
	var stack *cell.Stack

	BeforeEach(func() {
		stack = cell.NewStack(cell.DefaultParams())
	})

	Describe("at open circuit", func() {
		It("has zero residual at the equilibrium state", func() {
			stack.SetCurrent(0)
			dy := stack.Derive(0, stack.EquilibriumState())

			Expect(dy[0]).To(BeNumerically("~", 0, 1e-12))
			Expect(dy[1]).To(BeNumerically("~", 0, 1e-12))
		})

		It("reports the equilibrium state as its steady state", func() {
			stack.SetCurrent(0)
			ss := stack.SteadyState()
			eq := stack.EquilibriumState()

			Expect(ss[0]).To(BeNumerically("~", eq[0], 1e-12))
			Expect(ss[1]).To(BeNumerically("~", eq[1], 1e-12))
		})
	})

	Describe("under load", func() {
		It("discharges both double layers harder as current increases", func() {
			y := ode.State{0.6, 0.5}

			stack.SetCurrent(10)
			low := stack.Derive(0, y)
			stack.SetCurrent(20)
			high := stack.Derive(0, y)

			// d(dphi)/dt = -(i_ext - i_far)/C: raising i_ext at fixed
			// state pushes both derivatives toward discharge.
			Expect(high[0]).To(BeNumerically("<", low[0]))
			Expect(high[1]).To(BeNumerically("<", low[1]))
		})

		It("has zero residual at the closed-form steady state", func() {
			stack.SetCurrent(20)
			dy := stack.Derive(0, stack.SteadyState())

			Expect(dy[0]).To(BeNumerically("~", 0, 1e-9))
			Expect(dy[1]).To(BeNumerically("~", 0, 1e-9))
		})

		It("shifts the steady state below equilibrium", func() {
			stack.SetCurrent(20)
			ss := stack.SteadyState()
			eq := stack.EquilibriumState()

			Expect(ss[0]).To(BeNumerically("<", eq[0]))
			Expect(ss[1]).To(BeNumerically("<", eq[1]))
		})
	})

	Describe("cell voltage", func() {
		It("is the sum of the two state components", func() {
			y := ode.State{0.55, 0.51}
			Expect(stack.CellVoltage(y)).To(BeNumerically("~", y[0]+y[1], 1e-15))
		})

		It("yields power equal to voltage times current", func() {
			stack.SetCurrent(20)
			y := ode.State{0.55, 0.51}
			Expect(stack.Power(y)).To(BeNumerically("~", stack.CellVoltage(y)*20, 1e-12))
		})
	})

	Describe("runtime parameters", func() {
		It("round-trips through Get/SetParam", func() {
			Expect(stack.SetParam("i_ext", 42)).To(Succeed())
			Expect(stack.GetParams()["i_ext"]).To(Equal(42.0))
			Expect(stack.Current()).To(Equal(42.0))
		})

		It("rejects unknown parameter names", func() {
			Expect(stack.SetParam("viscosity", 1)).NotTo(Succeed())
		})
	})
})

var _ = Describe("Electrode", func() {
	It("matches the anode component of the full stack", func() {
		p := cell.DefaultParams()
		p.IExt = 20

		stack := cell.NewStack(p)
		half := cell.NewElectrode(p)

		y := ode.State{0.6, 0.5}
		full := stack.Derive(0, y)
		single := half.Derive(0, ode.State{y[0]})

		Expect(single[0]).To(BeNumerically("~", full[0], 1e-15))
	})

	It("rests at equilibrium with no current", func() {
		p := cell.DefaultParams()
		half := cell.NewElectrode(p)
		dy := half.Derive(0, half.EquilibriumState())

		Expect(dy[0]).To(BeNumerically("~", 0, 1e-12))
	})

	It("reports its interface potential as the cell voltage", func() {
		p := cell.DefaultParams()
		p.IExt = 20
		half := cell.NewElectrode(p)

		y := ode.State{0.58}
		Expect(half.CellVoltage(y)).To(Equal(0.58))
		Expect(half.Power(y)).To(BeNumerically("~", 0.58*20, 1e-12))
	})
})

var _ = Describe("Params", func() {
	It("accepts the defaults", func() {
		Expect(cell.DefaultParams().Validate()).To(Succeed())
	})

	It("rejects non-positive physical constants", func() {
		p := cell.DefaultParams()
		p.CdlAn = 0
		Expect(p.Validate()).NotTo(Succeed())

		p = cell.DefaultParams()
		p.Temp = -1
		Expect(p.Validate()).NotTo(Succeed())
	})

	It("rejects negative external current", func() {
		p := cell.DefaultParams()
		p.IExt = -5
		Expect(p.Validate()).NotTo(Succeed())
	})

	It("rejects symmetry factors outside (0,1)", func() {
		p := cell.DefaultParams()
		p.BetaCa = 1.0
		Expect(p.Validate()).NotTo(Succeed())
	})
})
