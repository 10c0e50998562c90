package ledger

import (
	"context"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Local", func() {
	var (
		dbPath string
		local  *Local
	)

	BeforeEach(func() {
		dbPath = filepath.Join(GinkgoT().TempDir(), "ledger.db")
		var err error
		local, err = NewLocal(dbPath)
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		if local != nil {
			local.Close()
		}
	})

	Describe("Append", func() {
		When("the ledger is empty", func() {
			It("writes the header first", func() {
				Expect(local.Append(context.Background(), sampleRow())).To(Succeed())

				rows, err := local.Rows()
				Expect(err).NotTo(HaveOccurred())
				Expect(rows).To(HaveLen(2))
				Expect(rows[0]).To(Equal(Header))
				Expect(rows[1]).To(Equal(sampleRow().Cells()))
			})
		})

		When("rows already exist", func() {
			It("keeps a single header and appends in order", func() {
				first := sampleRow()
				second := sampleRow()
				second.Vendor = "CONAD"

				Expect(local.Append(context.Background(), first)).To(Succeed())
				Expect(local.Append(context.Background(), second)).To(Succeed())

				rows, err := local.Rows()
				Expect(err).NotTo(HaveOccurred())
				Expect(rows).To(HaveLen(3))
				Expect(rows[1][1]).To(Equal("SPAR"))
				Expect(rows[2][1]).To(Equal("CONAD"))
			})

			It("does not detect duplicates", func() {
				Expect(local.Append(context.Background(), sampleRow())).To(Succeed())
				Expect(local.Append(context.Background(), sampleRow())).To(Succeed())

				rows, err := local.Rows()
				Expect(err).NotTo(HaveOccurred())
				Expect(rows).To(HaveLen(3))
			})
		})

		When("the context is already cancelled", func() {
			It("returns a write error and writes nothing", func() {
				ctx, cancel := context.WithCancel(context.Background())
				cancel()
				Expect(local.Append(ctx, sampleRow())).To(MatchError(ErrWrite))

				rows, err := local.Rows()
				Expect(err).NotTo(HaveOccurred())
				Expect(rows).To(BeEmpty())
			})
		})
	})

	When("the file is reopened", func() {
		It("keeps the rows", func() {
			Expect(local.Append(context.Background(), sampleRow())).To(Succeed())
			Expect(local.Close()).To(Succeed())

			var err error
			local, err = NewLocal(dbPath)
			Expect(err).NotTo(HaveOccurred())

			rows, err := local.Rows()
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(HaveLen(2))
		})
	})

	When("the path is not writable", func() {
		It("returns a connection error", func() {
			_, err := NewLocal(filepath.Join(GinkgoT().TempDir(), "missing", "dir", "ledger.db"))
			Expect(err).To(MatchError(ErrConnection))
		})
	})
})
