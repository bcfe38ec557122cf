package frame_test

import (
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/framesim/internal/element"
	"github.com/san-kum/framesim/internal/frame"
	"github.com/san-kum/framesim/internal/solver"
	"github.com/san-kum/framesim/internal/structure"
)

var _ = Describe("Frame", func() {
	Describe("input validation", func() {
		It("rejects mismatched property sequences before any computation", func() {
			in := uniform(structure.Line{From: pt(0, 0), To: pt(1, 0)}, structure.Line{From: pt(1, 0), To: pt(2, 0)})
			in.Inertia = in.Inertia[:1]

			_, err := frame.New(in)
			Expect(errors.Is(err, frame.ErrInputMismatch)).To(BeTrue())

			var ie *frame.InputError
			Expect(errors.As(err, &ie)).To(BeTrue())
			Expect(ie.Field).To(Equal("inertia"))
			Expect(ie.Got).To(Equal(1))
			Expect(ie.Want).To(Equal(2))
		})

		It("rejects a load sequence of the wrong length but accepts an empty one", func() {
			in := uniform(structure.Line{From: pt(0, 0), To: pt(1, 0)})
			in.Loads = []float64{1, 2}
			_, err := frame.New(in)
			Expect(err).To(MatchError(frame.ErrInputMismatch))

			in.Loads = nil
			_, err = frame.New(in)
			Expect(err).NotTo(HaveOccurred())
		})

		It("rejects an empty frame", func() {
			_, err := frame.New(frame.Input{})
			Expect(err).To(MatchError(frame.ErrNoElements))
		})

		It("rejects zero-length lines during topology", func() {
			f, err := frame.New(uniform(structure.Line{From: pt(1, 1), To: pt(1, 1)}))
			Expect(err).NotTo(HaveOccurred())
			err = f.EstablishTopology()
			Expect(errors.Is(err, structure.ErrZeroLength)).To(BeTrue())

			var ee *element.Error
			Expect(errors.As(err, &ee)).To(BeTrue())
			Expect(ee.Index).To(Equal(0))
		})

		It("enforces stage order", func() {
			f, err := frame.New(uniform(structure.Line{From: pt(0, 0), To: pt(1, 0)}))
			Expect(err).NotTo(HaveOccurred())

			Expect(f.AssembleSystem()).To(MatchError(frame.ErrTopologyMissing))
			Expect(f.CalculateDisplacements()).To(MatchError(frame.ErrNotAssembled))
			Expect(f.ComputeSectionalForces()).To(MatchError(frame.ErrNotSolved))
			_, err = f.Reactions()
			Expect(err).To(MatchError(frame.ErrNotSolved))
		})
	})

	Describe("topology", func() {
		twoSpans := func() frame.Input {
			return uniform(
				structure.Line{From: pt(0, 0), To: pt(2, 0)},
				structure.Line{From: pt(2, 0), To: pt(4, 0)},
			)
		}

		It("merges coincident endpoints into one node", func() {
			f, _ := frame.New(twoSpans())
			Expect(f.EstablishTopology()).To(Succeed())

			Expect(f.Nodes).To(HaveLen(3))
			Expect(f.NDof).To(Equal(9))
			Expect(f.EDof[1][:3]).To(Equal(f.EDof[0][3:]))
			Expect(f.Elements[0].Nodes()[1]).To(BeIdenticalTo(f.Elements[1].Nodes()[0]))
		})

		It("splits rotation at a hinge while sharing translation", func() {
			in := twoSpans()
			in.Hinges = []structure.HingeNode{{Point: pt(2, 0)}}
			f, _ := frame.New(in)
			Expect(f.EstablishTopology()).To(Succeed())

			Expect(f.Nodes).To(HaveLen(4))
			Expect(f.NDof).To(Equal(10))
			Expect(f.EDof[1][0]).To(Equal(f.EDof[0][3]))
			Expect(f.EDof[1][1]).To(Equal(f.EDof[0][4]))
			Expect(f.EDof[1][2]).NotTo(Equal(f.EDof[0][5]))
			Expect(f.Elements[1].Nodes()[0].Hinge).To(BeTrue())
			Expect(f.UnusedHinges()).To(BeEmpty())
		})

		It("keeps DOF indices dense", func() {
			in := twoSpans()
			in.Hinges = []structure.HingeNode{{Point: pt(2, 0)}}
			f, _ := frame.New(in)
			Expect(f.EstablishTopology()).To(Succeed())

			seen := make([]bool, f.NDof)
			for _, row := range f.EDof {
				for _, d := range row {
					seen[d] = true
				}
			}
			for d, ok := range seen {
				Expect(ok).To(BeTrue(), "dof %d unused", d)
			}
		})

		It("reports a hinge at a coordinate used only once", func() {
			in := twoSpans()
			in.Hinges = []structure.HingeNode{{Point: pt(0, 0)}}
			f, _ := frame.New(in)
			Expect(f.EstablishTopology()).To(Succeed())

			Expect(f.Nodes).To(HaveLen(3))
			Expect(f.UnusedHinges()).To(ConsistOf(structure.HingeNode{Point: pt(0, 0)}))
		})

		It("merges near-coincident points only with a snap tolerance", func() {
			in := uniform(
				structure.Line{From: pt(0, 0), To: pt(2, 0)},
				structure.Line{From: pt(2+1e-9, 0), To: pt(4, 0)},
			)
			exact, _ := frame.New(in)
			Expect(exact.EstablishTopology()).To(Succeed())
			Expect(exact.Nodes).To(HaveLen(4))

			snapped, _ := frame.New(in, frame.WithSnapTolerance(1e-6))
			Expect(snapped.EstablishTopology()).To(Succeed())
			Expect(snapped.Nodes).To(HaveLen(3))
		})

		It("applies constraints and loads to matching nodes", func() {
			in := twoSpans()
			in.Constraints = []structure.ConstraintNode{structure.FullyFixed(pt(0, 0))}
			in.LoadNodes = []structure.LoadNode{{Point: pt(4, 0), ForceY: -5}}
			f, _ := frame.New(in)
			Expect(f.EstablishTopology()).To(Succeed())
			Expect(f.CreateForceVector()).To(Succeed())
			Expect(f.CreateBoundaryVector()).To(Succeed())

			Expect(f.Boundary.Dofs).To(Equal([]int{0, 1, 2}))
			Expect(f.Boundary.Values).To(Equal([]float64{0, 0, 0}))
			Expect(f.Force[f.NodeAt(pt(4, 0)).Dofs[structure.DofY]]).To(Equal(-5.0))
			Expect(f.UnmatchedConstraints()).To(BeEmpty())
			Expect(f.UnmatchedLoads()).To(BeEmpty())
		})

		It("reports constraints and loads that match no node", func() {
			in := twoSpans()
			in.Constraints = []structure.ConstraintNode{
				structure.FullyFixed(pt(0, 0)),
				structure.Pinned(pt(0, 1)),
			}
			in.LoadNodes = []structure.LoadNode{{Point: pt(5, 0), ForceY: -5}}
			f, _ := frame.New(in)
			Expect(f.EstablishTopology()).To(Succeed())

			Expect(f.UnmatchedConstraints()).To(ConsistOf(structure.Pinned(pt(0, 1))))
			Expect(f.UnmatchedLoads()).To(ConsistOf(structure.LoadNode{Point: pt(5, 0), ForceY: -5}))
		})

		It("gives every later member at a hinge its own rotation", func() {
			in := uniform(
				structure.Line{From: pt(0, 0), To: pt(2, 0)},
				structure.Line{From: pt(2, 0), To: pt(4, 0)},
				structure.Line{From: pt(2, 0), To: pt(2, 2)},
			)
			in.Hinges = []structure.HingeNode{{Point: pt(2, 0)}}
			f, _ := frame.New(in)
			Expect(f.EstablishTopology()).To(Succeed())

			Expect(f.Nodes).To(HaveLen(6))
			Expect(f.NDof).To(Equal(14))

			left, right, up := f.EDof[0][3:], f.EDof[1][:3], f.EDof[2][:3]
			for _, d := range [][]int{right, up} {
				Expect(d[0]).To(Equal(left[0]))
				Expect(d[1]).To(Equal(left[1]))
			}
			Expect([]int{left[2], right[2], up[2]}).To(ConsistOf(5, 6, 10))
			Expect(f.Elements[1].Nodes()[0].Hinge).To(BeTrue())
			Expect(f.Elements[2].Nodes()[0].Hinge).To(BeTrue())
			Expect(f.Elements[1].Nodes()[0]).NotTo(BeIdenticalTo(f.Elements[2].Nodes()[0]))
		})

		It("leaves no partial topology when an element is rejected", func() {
			in := uniform(
				structure.Line{From: pt(0, 0), To: pt(1, 0)},
				structure.Line{From: pt(1, 0), To: pt(1, 0)},
			)
			in.LoadNodes = []structure.LoadNode{{Point: pt(1, 0), ForceY: -5}}
			f, _ := frame.New(in)

			err := f.EstablishTopology()
			Expect(err).To(MatchError(structure.ErrZeroLength))
			var elemErr *element.Error
			Expect(errors.As(err, &elemErr)).To(BeTrue())
			Expect(elemErr.Index).To(Equal(1))

			Expect(f.Nodes).To(BeEmpty())
			Expect(f.Elements).To(BeEmpty())
			Expect(f.NDof).To(BeZero())
			Expect(f.AssembleSystem()).To(MatchError(frame.ErrTopologyMissing))
			Expect(f.CreateForceVector()).To(MatchError(frame.ErrTopologyMissing))
		})
	})

	Describe("cantilever with a tip load", func() {
		const L, P = 4.0, 10e3

		cantilever := func(angle float64, n int, opts ...frame.Option) *frame.Frame {
			c, s := math.Cos(angle), math.Sin(angle)
			in := uniform(chain(pt(0, 0), pt(L*c, L*s), n)...)
			in.Constraints = []structure.ConstraintNode{structure.FullyFixed(pt(0, 0))}
			in.LoadNodes = []structure.LoadNode{{Point: pt(L*c, L*s), ForceX: -P * s, ForceY: P * c}}
			f, err := frame.New(in, opts...)
			Expect(err).NotTo(HaveOccurred())
			Expect(f.Analyze()).To(Succeed())
			return f
		}

		It("matches δ = PL³/(3EI)", func() {
			f := cantilever(0, 1)
			tip := f.NodeAt(pt(L, 0))
			Expect(relErr(f.Displacements[tip.Dofs[structure.DofY]], P*L*L*L/(3*ei))).To(BeNumerically("<", 1e-6))
			Expect(relErr(f.Displacements[tip.Dofs[structure.DofR]], P*L*L/(2*ei))).To(BeNumerically("<", 1e-6))
		})

		It("gives the same tip deflection in any orientation and mesh", func() {
			want := P * L * L * L / (3 * ei)
			for _, angle := range []float64{0.4, math.Pi / 2, 2.2} {
				f := cantilever(angle, 4)
				tip := f.Elements[3].Nodes()[1]
				dx := f.Displacements[tip.Dofs[structure.DofX]]
				dy := f.Displacements[tip.Dofs[structure.DofY]]

				transverse := -dx*math.Sin(angle) + dy*math.Cos(angle)
				Expect(relErr(transverse, want)).To(BeNumerically("<", 1e-6), "angle %.2f", angle)
			}
		})

		It("recovers the linear moment and constant shear", func() {
			f := cantilever(0, 1, frame.WithEvalPoints(5))
			sol := f.Elements[0].Solution()

			Expect(sol.X).To(HaveLen(5))
			Expect(sol.ShearForce).To(HaveLen(5))
			Expect(sol.BendingMoment).To(HaveLen(5))
			Expect(sol.NormalForce).To(HaveLen(5))
			Expect(sol.X[0]).To(Equal(0.0))
			Expect(sol.X[4]).To(BeNumerically("~", L, 1e-12))

			for i, x := range sol.X {
				Expect(sol.BendingMoment[i]).To(BeNumerically("~", P*(L-x), 1e-6*P*L))
				Expect(sol.ShearForce[i]).To(BeNumerically("~", P, 1e-6*P))
			}
		})

		It("balances the load with the support reaction", func() {
			f := cantilever(0, 2)
			r, err := f.Reactions()
			Expect(err).NotTo(HaveOccurred())

			base := f.NodeAt(pt(0, 0))
			Expect(r[base.Dofs[structure.DofY]]).To(BeNumerically("~", -P, 1e-6*P))
			Expect(r[base.Dofs[structure.DofR]]).To(BeNumerically("~", -P*L, 1e-6*P*L))

			tip := f.NodeAt(pt(L, 0))
			Expect(r[tip.Dofs[structure.DofY]]).To(BeNumerically("~", 0, 1e-6*P))
		})
	})

	Describe("simply supported beam under uniform load", func() {
		const L, q = 6.0, -8e3

		It("has qL²/8 at midspan and qL/2 shear at the supports", func() {
			in := uniform(structure.Line{From: pt(0, 0), To: pt(L, 0)})
			in.Loads = []float64{q}
			in.Constraints = []structure.ConstraintNode{structure.Pinned(pt(0, 0)), structure.Roller(pt(L, 0))}

			f, err := frame.New(in)
			Expect(err).NotTo(HaveOccurred())
			Expect(f.Analyze()).To(Succeed())

			sol := f.Elements[0].Solution()
			mid := len(sol.X) / 2
			Expect(sol.X[mid]).To(BeNumerically("~", L/2, 1e-12))
			Expect(math.Abs(sol.BendingMoment[mid])).To(BeNumerically("~", math.Abs(q)*L*L/8, 1e-6*math.Abs(q)*L*L))
			for _, i := range []int{0, len(sol.X) - 1} {
				Expect(math.Abs(sol.ShearForce[i])).To(BeNumerically("~", math.Abs(q)*L/2, 1e-6*math.Abs(q)*L))
				Expect(sol.BendingMoment[i]).To(BeNumerically("~", 0, 1e-6*math.Abs(q)*L*L))
			}

			r, err := f.Reactions()
			Expect(err).NotTo(HaveOccurred())
			total := r[f.NodeAt(pt(0, 0)).Dofs[structure.DofY]] + r[f.NodeAt(pt(L, 0)).Dofs[structure.DofY]]
			Expect(total).To(BeNumerically("~", -q*L, 1e-6*math.Abs(q)*L))
		})
	})

	Describe("axial bar", func() {
		It("extends by PL/(AE) with constant normal force", func() {
			const L, P = 3.0, 50e3
			in := uniform(structure.Line{From: pt(0, 0), To: pt(L, 0)})
			in.Kinds = []element.Kind{element.KindBar}
			in.Constraints = []structure.ConstraintNode{
				structure.FullyFixed(pt(0, 0)),
				{Point: pt(L, 0), ConstraintY: structure.Fixed(0), ConstraintR: structure.Fixed(0)},
			}
			in.LoadNodes = []structure.LoadNode{{Point: pt(L, 0), ForceX: P}}

			f, err := frame.New(in)
			Expect(err).NotTo(HaveOccurred())
			Expect(f.Analyze()).To(Succeed())

			end := f.NodeAt(pt(L, 0))
			Expect(relErr(f.Displacements[end.Dofs[structure.DofX]], P*L/(area*modulus))).To(BeNumerically("<", 1e-6))
			for _, n := range f.Elements[0].Solution().NormalForce {
				Expect(n).To(BeNumerically("~", P, 1e-6*P))
			}
		})
	})

	Describe("hinged beam", func() {
		It("acts as two cantilevers sharing the load", func() {
			const a, P = 2.0, 12e3
			in := uniform(
				structure.Line{From: pt(0, 0), To: pt(a, 0)},
				structure.Line{From: pt(a, 0), To: pt(2*a, 0)},
			)
			in.Constraints = []structure.ConstraintNode{structure.FullyFixed(pt(0, 0)), structure.FullyFixed(pt(2*a, 0))}
			in.LoadNodes = []structure.LoadNode{{Point: pt(a, 0), ForceY: -P}}
			in.Hinges = []structure.HingeNode{{Point: pt(a, 0)}}

			f, err := frame.New(in)
			Expect(err).NotTo(HaveOccurred())
			Expect(f.Analyze()).To(Succeed())

			mid := f.NodeAt(pt(a, 0))
			Expect(relErr(f.Displacements[mid.Dofs[structure.DofY]], -P*a*a*a/(6*ei))).To(BeNumerically("<", 1e-6))

			last := len(f.Elements[0].Solution().BendingMoment) - 1
			Expect(f.Elements[0].Solution().BendingMoment[last]).To(BeNumerically("~", 0, 1e-6*P*a))
			Expect(f.Elements[1].Solution().BendingMoment[0]).To(BeNumerically("~", 0, 1e-6*P*a))
		})
	})

	Describe("unstable structures", func() {
		It("reports a singular system with no supports", func() {
			in := uniform(structure.Line{From: pt(0, 0), To: pt(3, 0)})
			in.LoadNodes = []structure.LoadNode{{Point: pt(3, 0), ForceY: -1}}
			f, _ := frame.New(in)
			err := f.Analyze()
			Expect(errors.Is(err, solver.ErrSingular)).To(BeTrue(), "got %v", err)
			Expect(f.Displacements).To(BeNil())
		})

		It("reports a mechanism with a single pin", func() {
			in := uniform(structure.Line{From: pt(0, 0), To: pt(3, 0)})
			in.Constraints = []structure.ConstraintNode{structure.Pinned(pt(0, 0))}
			f, _ := frame.New(in, frame.WithStrategy(solver.NewCholesky(0)))
			Expect(errors.Is(f.Analyze(), solver.ErrSingular)).To(BeTrue())
		})
	})

	Describe("assembly", func() {
		portal := func(opts ...frame.Option) *frame.Frame {
			in := uniform(
				structure.Line{From: pt(0, 0), To: pt(0, 3)},
				structure.Line{From: pt(0, 3), To: pt(4, 3)},
				structure.Line{From: pt(4, 3), To: pt(4, 0)},
			)
			in.Loads = []float64{0, -5e3, 0}
			in.Constraints = []structure.ConstraintNode{structure.FullyFixed(pt(0, 0)), structure.FullyFixed(pt(4, 0))}
			in.LoadNodes = []structure.LoadNode{{Point: pt(0, 3), ForceX: 10e3}}
			f, err := frame.New(in, opts...)
			Expect(err).NotTo(HaveOccurred())
			Expect(f.Analyze()).To(Succeed())
			return f
		}

		It("produces a symmetric FullK", func() {
			f := portal()
			Expect(f.K.IsSymmetric(1e-12)).To(BeTrue())
		})

		It("is reproducible on reassembly", func() {
			f := portal()
			before := f.K.FullK.RawMatrix().Data
			force := append([]float64(nil), f.Force...)

			Expect(f.AssembleSystem()).To(Succeed())
			Expect(f.K.FullK.RawMatrix().Data).To(Equal(before))
			Expect(f.Force).To(Equal(force))
		})

		It("equals the sum of element contributions", func() {
			f := portal()
			for r := 0; r < f.NDof; r++ {
				for c := 0; c < f.NDof; c++ {
					sum := 0.0
					for i, e := range f.Elements {
						k := e.StiffnessMatrix()
						for a, da := range f.EDof[i] {
							for b, db := range f.EDof[i] {
								if da == r && db == c {
									sum += k.At(a, b)
								}
							}
						}
					}
					Expect(f.K.FullK.At(r, c)).To(BeNumerically("~", sum, 1e-9*math.Abs(sum)+1e-9))
				}
			}
		})

		It("gives identical results in parallel", func() {
			seq := portal()
			par := portal(frame.WithParallel(true))
			Expect(par.Displacements).To(Equal(seq.Displacements))
			for i := range seq.Elements {
				Expect(par.Elements[i].Solution().BendingMoment).To(Equal(seq.Elements[i].Solution().BendingMoment))
			}
		})

		It("keeps equilibrium residuals at free DOFs near zero", func() {
			f := portal()
			r, err := f.Reactions()
			Expect(err).NotTo(HaveOccurred())
			for _, d := range f.K.FreeDofs() {
				Expect(r[d]).To(BeNumerically("~", 0, 1e-4))
			}
		})
	})

	Describe("second-order analysis", func() {
		It("needs normal forces before the geometric-nonlinear matrix", func() {
			f, _ := frame.New(column(4, 1e3, 2))
			Expect(f.EstablishTopology()).To(Succeed())
			_, err := f.GeometricNonlinearStiffness()
			Expect(errors.Is(err, element.ErrNormalForcesRequired)).To(BeTrue())
		})

		It("is not supported by the linear strategy", func() {
			f, _ := frame.New(column(4, 1e3, 2))
			Expect(f.EstablishTopology()).To(Succeed())
			Expect(f.AssembleSystem()).To(Succeed())
			Expect(errors.Is(f.CalculateSecondOrderDisplacements(), solver.ErrNotSupported)).To(BeTrue())
		})

		It("amplifies lateral deflection like a beam-column", func() {
			const L = 4.0
			pcr := math.Pi * math.Pi * ei / (L * L)
			alpha := 0.3
			build := func(s solver.Strategy) *frame.Frame {
				in := column(L, alpha*pcr, 8)
				in.LoadNodes = append(in.LoadNodes, structure.LoadNode{Point: pt(0, L/2), ForceX: 1e3})
				f, err := frame.New(in, frame.WithStrategy(s))
				Expect(err).NotTo(HaveOccurred())
				Expect(f.Analyze()).To(Succeed())
				return f
			}

			lin := build(solver.NewLU(0))
			nl := build(solver.NewSecondOrder(nil, 1e-10, 50))

			dof := lin.NodeAt(pt(0, L/2)).Dofs[structure.DofX]
			u := math.Pi * math.Sqrt(alpha) / 2
			want := 3 * (math.Tan(u) - u) / (u * u * u)
			Expect(relErr(nl.Displacements[dof]/lin.Displacements[dof], want)).To(BeNumerically("<", 1e-4))
		})
	})

	Describe("Euler column buckling", func() {
		const L, P = 4.0, 1e5
		pcr := math.Pi * math.Pi * ei / (L * L)

		solved := func(in frame.Input) *frame.Frame {
			f, err := frame.New(in)
			Expect(err).NotTo(HaveOccurred())
			Expect(f.Analyze()).To(Succeed())
			return f
		}

		It("finds the Euler load from the eigenvalue problem", func() {
			f := solved(column(L, P, 8))
			modes, err := f.Buckling(2)
			Expect(err).NotTo(HaveOccurred())
			Expect(modes).To(HaveLen(2))
			Expect(relErr(modes[0].Factor*P, pcr)).To(BeNumerically("<", 1e-3))
			Expect(relErr(modes[1].Factor*P, 4*pcr)).To(BeNumerically("<", 1e-2))

			mid := f.NodeAt(pt(0, L/2))
			Expect(math.Abs(modes[0].Shape[mid.Dofs[structure.DofX]])).To(BeNumerically("~", 1, 1e-6))
			Expect(f.Elements[0].Solution().BucklingModes).To(HaveLen(2))
		})

		It("finds the exact Euler load from the stability functions", func() {
			f := solved(column(L, P, 2))
			lambda, err := f.CriticalLoadFactor()
			Expect(err).NotTo(HaveOccurred())
			Expect(relErr(lambda*P, pcr)).To(BeNumerically("<", 1e-6))
		})

		It("refuses to buckle a column in tension", func() {
			f := solved(column(L, -P, 4))
			_, err := f.Buckling(1)
			Expect(err).To(MatchError(frame.ErrNoCompression))
			_, err = f.CriticalLoadFactor()
			Expect(err).To(MatchError(frame.ErrNoCompression))
		})
	})
})
