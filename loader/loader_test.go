package loader_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/vmipsim/loader"
)

var _ = Describe("Loader", func() {
	var dir string

	BeforeEach(func() {
		var err error
		dir, err = os.MkdirTemp("", "vmipsim-loader")
		Expect(err).ToNot(HaveOccurred())
	})

	AfterEach(func() {
		os.RemoveAll(dir)
	})

	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		Expect(os.WriteFile(path, []byte(content), 0644)).To(Succeed())
		return path
	}

	Describe("LoadParams", func() {
		It("should parse key = value lines", func() {
			path := write("Config.txt", "dataQueueDepth = 4\nnumLanes = 2\n")

			params, err := loader.LoadParams(path)
			Expect(err).ToNot(HaveOccurred())
			Expect(params).To(HaveKeyWithValue("dataQueueDepth", 4))
			Expect(params).To(HaveKeyWithValue("numLanes", 2))
		})

		It("should ignore comments and blank lines", func() {
			path := write("Config.txt",
				"# machine parameters\n\nnumLanes = 8 # lanes\n   \n# trailing\n")

			params, err := loader.LoadParams(path)
			Expect(err).ToNot(HaveOccurred())
			Expect(params).To(HaveLen(1))
			Expect(params).To(HaveKeyWithValue("numLanes", 8))
		})

		It("should accept negative values", func() {
			path := write("Config.txt", "weird = -3\n")

			params, err := loader.LoadParams(path)
			Expect(err).ToNot(HaveOccurred())
			Expect(params).To(HaveKeyWithValue("weird", -3))
		})

		It("should reject non-integer values", func() {
			path := write("Config.txt", "numLanes = four\n")

			_, err := loader.LoadParams(path)
			Expect(err).To(HaveOccurred())
		})

		It("should reject lines without a separator", func() {
			path := write("Config.txt", "numLanes 4\n")

			_, err := loader.LoadParams(path)
			Expect(err).To(HaveOccurred())
		})

		It("should fail on a missing file", func() {
			_, err := loader.LoadParams(filepath.Join(dir, "absent.txt"))
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("LoadIMem", func() {
		It("should tokenise instructions in order", func() {
			path := write("Resolved_Code.txt",
				"ADDVV VR1 VR2 VR3\nLV VR1 (0,1,2) # load\nHALT\n")

			imem, err := loader.LoadIMem(path)
			Expect(err).ToNot(HaveOccurred())
			Expect(imem.Count()).To(Equal(3))

			tokens, ok := imem.Fetch(1)
			Expect(ok).To(BeTrue())
			Expect(tokens).To(Equal([]string{"LV", "VR1", "(0,1,2)"}))
		})

		It("should skip comment-only and blank lines", func() {
			path := write("Resolved_Code.txt", "# prologue\n\nHALT\n")

			imem, err := loader.LoadIMem(path)
			Expect(err).ToNot(HaveOccurred())
			Expect(imem.Count()).To(Equal(1))
		})

		It("should report out-of-range fetches", func() {
			path := write("Resolved_Code.txt", "HALT\n")

			imem, err := loader.LoadIMem(path)
			Expect(err).ToNot(HaveOccurred())

			_, ok := imem.Fetch(5)
			Expect(ok).To(BeFalse())
		})

		It("should reject a program without HALT", func() {
			path := write("Resolved_Code.txt", "ADDVV VR1 VR2 VR3\n")

			_, err := loader.LoadIMem(path)
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("LoadDMem", func() {
		It("should load words and zero-fill the rest", func() {
			write("SDMEM.txt", "1\n2\n-3\n")

			m, err := loader.LoadDMem("SDMEM", dir, loader.SDMemAddrBits)
			Expect(err).ToNot(HaveOccurred())
			Expect(m.Size()).To(Equal(1 << loader.SDMemAddrBits))

			v, err := m.Read(2)
			Expect(err).ToNot(HaveOccurred())
			Expect(v).To(Equal(int32(-3)))

			v, err = m.Read(3)
			Expect(err).ToNot(HaveOccurred())
			Expect(v).To(Equal(int32(0)))
		})

		It("should tolerate a missing file as all zeros", func() {
			m, err := loader.LoadDMem("VDMEM", dir, loader.VDMemAddrBits)
			Expect(err).ToNot(HaveOccurred())
			Expect(m.Size()).To(Equal(1 << loader.VDMemAddrBits))
		})

		It("should reject values outside the 32-bit word range", func() {
			write("SDMEM.txt", "4294967296\n")

			_, err := loader.LoadDMem("SDMEM", dir, loader.SDMemAddrBits)
			Expect(err).To(HaveOccurred())
		})

		It("should range-check reads and writes", func() {
			m, err := loader.LoadDMem("SDMEM", dir, loader.SDMemAddrBits)
			Expect(err).ToNot(HaveOccurred())

			_, err = m.Read(m.Size())
			Expect(err).To(HaveOccurred())
			Expect(m.Write(-1, 0)).ToNot(Succeed())
		})

		It("should dump the image back out", func() {
			write("SDMEM.txt", "7\n8\n")

			m, err := loader.LoadDMem("SDMEM", dir, loader.SDMemAddrBits)
			Expect(err).ToNot(HaveOccurred())
			Expect(m.Dump(dir)).To(Succeed())

			data, err := os.ReadFile(filepath.Join(dir, "SDMEMOP.txt"))
			Expect(err).ToNot(HaveOccurred())
			Expect(string(data[:4])).To(Equal("7\n8\n"))
		})
	})
})
