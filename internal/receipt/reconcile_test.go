package receipt

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/zombor/receipt-ledger/internal/catalog"
	"github.com/zombor/receipt-ledger/internal/scanning"
)

var _ = Describe("Reconcile", func() {
	var (
		now      time.Time
		baseline FormDefaults
	)

	BeforeEach(func() {
		now = time.Date(2024, 5, 17, 9, 30, 0, 0, time.UTC)
		baseline = Baseline(now)
	})

	reconcileReply := func(reply string) FormDefaults {
		fields, err := scanning.ParseExtraction(reply)
		Expect(err).NotTo(HaveOccurred())
		return Reconcile(fields, baseline, catalog.Categories)
	}

	Describe("Baseline", func() {
		It("uses today's date at midnight", func() {
			Expect(baseline.Date).To(Equal(time.Date(2024, 5, 17, 0, 0, 0, 0, time.UTC)))
		})

		It("starts every other field blank", func() {
			Expect(baseline.Vendor).To(BeEmpty())
			Expect(baseline.Amount.StringFixed(2)).To(Equal("0.00"))
			Expect(baseline.ReceiptNumber).To(BeEmpty())
			Expect(baseline.CategoryIndex).To(Equal(0))
			Expect(baseline.ProjectIndex).To(Equal(0))
			Expect(baseline.PayerIndex).To(Equal(0))
			Expect(baseline.Suggested.Any()).To(BeFalse())
		})
	})

	When("the reply is complete", func() {
		It("takes every value", func() {
			out := reconcileReply(`{"trgovina":"SPAR","znesek":12.5,"datum":"2024-03-01","st_racuna":"77","vrsta_odhodka":"2 - Živila"}`)
			Expect(out.Vendor).To(Equal("SPAR"))
			Expect(out.Amount.StringFixed(2)).To(Equal("12.50"))
			Expect(out.Date).To(Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)))
			Expect(out.ReceiptNumber).To(Equal("77"))
			idx, ok := catalog.Categories.Index("2 - Živila")
			Expect(ok).To(BeTrue())
			Expect(out.CategoryIndex).To(Equal(idx))
		})
	})

	When("there is no extraction at all", func() {
		It("returns the baseline", func() {
			Expect(Reconcile(nil, baseline, catalog.Categories)).To(Equal(baseline))
		})
	})

	When("the reply has no keys", func() {
		It("returns the baseline", func() {
			Expect(reconcileReply(`{}`)).To(Equal(baseline))
		})
	})

	DescribeTable("a single present key only changes its own field",
		func(reply string, expect func(FormDefaults) FormDefaults) {
			Expect(reconcileReply(reply)).To(Equal(expect(baseline)))
		},
		Entry("vendor", `{"trgovina":"Mercator"}`, func(f FormDefaults) FormDefaults {
			f.Vendor = "Mercator"
			f.Suggested.Vendor = true
			return f
		}),
		Entry("receipt number", `{"st_racuna":"A-19"}`, func(f FormDefaults) FormDefaults {
			f.ReceiptNumber = "A-19"
			f.Suggested.ReceiptNumber = true
			return f
		}),
		Entry("date", `{"datum":"2023-12-31"}`, func(f FormDefaults) FormDefaults {
			f.Date = time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC)
			f.Suggested.Date = true
			return f
		}),
		Entry("category", `{"vrsta_odhodka":"6 - Prevoz"}`, func(f FormDefaults) FormDefaults {
			f.CategoryIndex = 5
			f.Suggested.Category = true
			return f
		}),
	)

	DescribeTable("amounts that are not decimals stay 0.00",
		func(reply string) {
			out := reconcileReply(reply)
			Expect(out.Amount.StringFixed(2)).To(Equal("0.00"))
			Expect(out.Suggested.Amount).To(BeFalse())
		},
		Entry("text", `{"znesek":"twelve"}`),
		Entry("null", `{"znesek":null}`),
		Entry("boolean", `{"znesek":true}`),
		Entry("object", `{"znesek":{"value":12}}`),
		Entry("huge exponent", `{"znesek":1e200000000}`),
		Entry("huge exponent as text", `{"znesek":"1e200000000"}`),
	)

	DescribeTable("amounts written as text are coerced",
		func(reply, want string) {
			Expect(reconcileReply(reply).Amount.StringFixed(2)).To(Equal(want))
		},
		Entry("comma decimal", `{"znesek":"12,50"}`, "12.50"),
		Entry("currency suffix", `{"znesek":"1.234,56 EUR"}`, "1234.56"),
		Entry("plain number string", `{"znesek":"7.9"}`, "7.90"),
	)

	DescribeTable("dates that are not YYYY-MM-DD keep today",
		func(reply string) {
			out := reconcileReply(reply)
			Expect(out.Date).To(Equal(baseline.Date))
			Expect(out.Suggested.Date).To(BeFalse())
		},
		Entry("european order", `{"datum":"01.03.2024"}`),
		Entry("slashes", `{"datum":"2024/03/01"}`),
		Entry("impossible day", `{"datum":"2024-02-30"}`),
		Entry("with time", `{"datum":"2024-03-01T10:00:00"}`),
		Entry("number", `{"datum":20240301}`),
	)

	DescribeTable("categories outside the list keep index 0",
		func(reply string) {
			out := reconcileReply(reply)
			Expect(out.CategoryIndex).To(Equal(0))
			Expect(out.Suggested.Category).To(BeFalse())
		},
		Entry("unknown label", `{"vrsta_odhodka":"Groceries"}`),
		Entry("number only", `{"vrsta_odhodka":"2"}`),
		Entry("different case", `{"vrsta_odhodka":"2 - živila"}`),
		Entry("surrounding whitespace", `{"vrsta_odhodka":" 2 - Živila "}`),
	)

	It("leaves the human-only fields alone", func() {
		baseline.Description = "camp food"
		baseline.ProjectIndex = 2
		baseline.PayerIndex = 11
		out := reconcileReply(`{"trgovina":"SPAR","znesek":3}`)
		Expect(out.Description).To(Equal("camp food"))
		Expect(out.ProjectIndex).To(Equal(2))
		Expect(out.PayerIndex).To(Equal(11))
	})

	It("is deterministic", func() {
		reply := `{"trgovina":"SPAR","znesek":"4,20","datum":"bad","vrsta_odhodka":"20 - Drugo"}`
		Expect(reconcileReply(reply)).To(Equal(reconcileReply(reply)))
	})
})
