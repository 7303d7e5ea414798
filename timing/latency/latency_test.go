package latency_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/vmipsim/insts"
	"github.com/sarchlab/vmipsim/timing/latency"
)

var _ = Describe("Table", func() {
	var table *latency.Table

	BeforeEach(func() {
		config, err := latency.FromParams(fullParams())
		Expect(err).ToNot(HaveOccurred())
		table = latency.NewTableWithConfig(config)
	})

	inst := func(unit insts.Unit) *insts.Instruction {
		return &insts.Instruction{Word: "X", Unit: unit}
	}

	Describe("vector ALU latency", func() {
		It("should charge pipelineDepth + VL/lanes - 1 on the add unit", func() {
			cycles, err := table.CyclesFor(inst(insts.UnitVectorADD), 64)
			Expect(err).ToNot(HaveOccurred())
			Expect(cycles).To(Equal(6 + 16 - 1))
		})

		It("should use the multiply depth on the multiply unit", func() {
			cycles, err := table.CyclesFor(inst(insts.UnitVectorMUL), 64)
			Expect(err).ToNot(HaveOccurred())
			Expect(cycles).To(Equal(12 + 16 - 1))
		})

		It("should use the divide depth on the divide unit", func() {
			cycles, err := table.CyclesFor(inst(insts.UnitVectorDIV), 64)
			Expect(err).ToNot(HaveOccurred())
			Expect(cycles).To(Equal(8 + 16 - 1))
		})

		It("should use the shuffle depth on the shuffle unit", func() {
			cycles, err := table.CyclesFor(inst(insts.UnitVectorSHUF), 64)
			Expect(err).ToNot(HaveOccurred())
			Expect(cycles).To(Equal(6 + 16 - 1))
		})

		It("should reach the minimum latency when VL equals the lane count", func() {
			cycles, err := table.CyclesFor(inst(insts.UnitVectorADD), 4)
			Expect(err).ToNot(HaveOccurred())
			Expect(cycles).To(Equal(6))
		})

		It("should floor the chime division", func() {
			// VL 6 over 4 lanes floors to one chime.
			cycles, err := table.CyclesFor(inst(insts.UnitVectorADD), 6)
			Expect(err).ToNot(HaveOccurred())
			Expect(cycles).To(Equal(6))
		})

		It("should reject an out-of-range vector length", func() {
			_, err := table.CyclesFor(inst(insts.UnitVectorADD), 0)
			Expect(err).To(HaveOccurred())

			_, err = table.CyclesFor(inst(insts.UnitVectorADD), 65)
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("scalar latency", func() {
		It("should charge one cycle", func() {
			cycles, err := table.CyclesFor(inst(insts.UnitScalar), 64)
			Expect(err).ToNot(HaveOccurred())
			Expect(cycles).To(Equal(1))
		})
	})

	Describe("vector load/store latency", func() {
		It("should delegate to the bank-conflict model", func() {
			ls := inst(insts.UnitVectorLS)
			ls.Addrs = []int{0}

			cycles, err := table.CyclesFor(ls, 64)
			Expect(err).ToNot(HaveOccurred())
			Expect(cycles).To(Equal(table.VectorAccessCycles(ls.Addrs)))
		})
	})
})

var _ = Describe("VectorAccessCycles", func() {
	// Parameters chosen to walk the model by hand: front-end depth 11,
	// four banks, two busy cycles per access.
	newTable := func() *latency.Table {
		config := latency.DefaultConfig()
		config.VLSPipelineDepth = 11
		config.VDMNumBanks = 4
		config.VDMBankBusyTime = 2
		return latency.NewTableWithConfig(config)
	}

	It("should charge depth + waves for a single access", func() {
		// 11 front-end + 2 waves (one address, one trailing empty wave),
		// banks fully drained at the end.
		Expect(newTable().VectorAccessCycles([]int{0})).To(Equal(13))
	})

	It("should not penalise conflict-free sequential addresses", func() {
		// Eight addresses round-robin the four banks; each bank is free
		// again before its reuse. 11 + 9 waves.
		addrs := []int{0, 1, 2, 3, 4, 5, 6, 7}
		Expect(newTable().VectorAccessCycles(addrs)).To(Equal(20))
	})

	It("should serialise same-bank conflicts and drain the tail", func() {
		// All three addresses hit bank 0. Walking the model: after the
		// trailing empty wave bank 0 still holds 4 cycles of occupancy,
		// so 11 + 4 waves + 4 tail.
		addrs := []int{0, 4, 8}
		Expect(newTable().VectorAccessCycles(addrs)).To(Equal(19))
	})

	It("should handle a full-length sequential vector", func() {
		addrs := make([]int, 64)
		for i := range addrs {
			addrs[i] = i
		}
		// 11 front-end + 65 waves, no residual occupancy.
		Expect(newTable().VectorAccessCycles(addrs)).To(Equal(76))
	})

	It("should charge only the front end plus the empty wave for no addresses", func() {
		Expect(newTable().VectorAccessCycles(nil)).To(Equal(12))
	})

	It("should be deterministic across repeated evaluation", func() {
		table := newTable()
		addrs := []int{0, 4, 1, 5, 2, 6}
		Expect(table.VectorAccessCycles(addrs)).To(Equal(table.VectorAccessCycles(addrs)))
	})
})
