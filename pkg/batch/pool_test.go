package batch

import (
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/spoolworks/spool/pkg/markdown"
)

var _ = Describe("Pool", func() {
	var dir string

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
	})

	writeConv := func(name string) string {
		path := filepath.Join(dir, name)
		Expect(os.WriteFile(path, []byte(goodConversation), 0o644)).To(Succeed())
		return path
	}

	It("converts every enqueued job and closes the results channel", func() {
		pool := NewPool(PoolConfig{
			Converter:  &markdown.Converter{Location: time.UTC},
			NumWorkers: 2,
		})

		inputs := []string{writeConv("a.json"), writeConv("b.json"), writeConv("c.json")}
		go func() {
			defer pool.Close()
			for _, in := range inputs {
				pool.Enqueue(Job{InputPath: in})
			}
		}()

		var outcomes []Outcome
		for outcome := range pool.Results() {
			outcomes = append(outcomes, outcome)
		}

		Expect(outcomes).To(HaveLen(3))
		for _, o := range outcomes {
			Expect(o.Err).NotTo(HaveOccurred())
			Expect(o.Result.Turns).To(Equal(1))
			Expect(o.Result.OutputPath).To(BeAnExistingFile())
		}
	})

	It("delivers conversion failures as outcomes, not panics", func() {
		pool := NewPool(PoolConfig{
			Converter: &markdown.Converter{Location: time.UTC},
		})

		go func() {
			defer pool.Close()
			pool.Enqueue(Job{InputPath: filepath.Join(dir, "missing.json")})
		}()

		var outcomes []Outcome
		for outcome := range pool.Results() {
			outcomes = append(outcomes, outcome)
		}

		Expect(outcomes).To(HaveLen(1))
		Expect(outcomes[0].Err).To(HaveOccurred())
	})
})
