package markdown

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("FormatTimestamp", func() {
	It("renders epoch seconds at minute precision in the given location", func() {
		tokyo, err := time.LoadLocation("Asia/Tokyo")
		Expect(err).NotTo(HaveOccurred())

		epoch := float64(1740795968)
		Expect(FormatTimestamp(&epoch, tokyo)).To(Equal("2025-03-01T11:26"))
	})

	It("truncates fractional seconds instead of rounding", func() {
		epoch := 1740795968.999
		Expect(FormatTimestamp(&epoch, time.UTC)).To(Equal("2025-03-01T02:26"))
	})

	It("returns empty for an absent timestamp", func() {
		Expect(FormatTimestamp(nil, time.UTC)).To(Equal(""))
	})

	It("falls back to local time when location is nil", func() {
		epoch := float64(1740795968)
		want := time.Unix(1740795968, 0).In(time.Local).Format("2006-01-02T15:04")
		Expect(FormatTimestamp(&epoch, nil)).To(Equal(want))
	})
})
