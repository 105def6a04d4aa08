package markdown

import (
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

const sampleExport = `{
  "title": "Sample",
  "create_time": 1740795968,
  "update_time": 1740796028,
  "mapping": {
    "root": {"parent": null, "children": ["u1"], "message": null},
    "u1": {
      "parent": "root", "children": ["a1"],
      "message": {
        "author": {"role": "user"},
        "content": {"content_type": "text", "parts": ["hello"]},
        "create_time": 1740795968
      }
    },
    "a1": {
      "parent": "u1", "children": [],
      "message": {
        "author": {"role": "assistant"},
        "content": {"content_type": "text", "parts": ["hi there"]},
        "create_time": 1740796028,
        "metadata": {"model_slug": "gpt-4o"}
      }
    }
  }
}`

const systemOnlyExport = `{
  "title": "Empty",
  "create_time": 1740795968,
  "mapping": {
    "root": {"parent": null, "children": ["sys"], "message": null},
    "sys": {
      "parent": "root", "children": [],
      "message": {
        "author": {"role": "system"},
        "content": {"content_type": "text", "parts": ["boot"]}
      }
    }
  }
}`

var _ = Describe("Converter", func() {
	var (
		dir       string
		converter *Converter
	)

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
		converter = &Converter{Location: time.UTC}
	})

	writeInput := func(name, content string) string {
		path := filepath.Join(dir, name)
		Expect(os.WriteFile(path, []byte(content), 0o644)).To(Succeed())
		return path
	}

	It("writes the rendered document to the given output path", func() {
		input := writeInput("sample.json", sampleExport)
		output := filepath.Join(dir, "out", "sample.md")

		result, err := converter.ConvertFile(input, output)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Skipped).To(BeFalse())
		Expect(result.Turns).To(Equal(1))
		Expect(result.OutputPath).To(Equal(output))

		data, err := os.ReadFile(output)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(ContainSubstring("title: Sample\n"))
		Expect(string(data)).To(ContainSubstring("# Turn 00"))
		Expect(string(data)).To(ContainSubstring("hi there"))
	})

	It("defaults the output path to the input with a .md extension", func() {
		input := writeInput("sample.json", sampleExport)

		result, err := converter.ConvertFile(input, "")
		Expect(err).NotTo(HaveOccurred())
		Expect(result.OutputPath).To(Equal(filepath.Join(dir, "sample.md")))
		Expect(result.OutputPath).To(BeAnExistingFile())
	})

	It("skips a structurally empty conversation without writing a file", func() {
		input := writeInput("empty.json", systemOnlyExport)
		output := filepath.Join(dir, "empty.md")

		result, err := converter.ConvertFile(input, output)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Skipped).To(BeTrue())
		Expect(output).NotTo(BeAnExistingFile())
	})

	It("writes byte-identical output when re-run on the same input", func() {
		input := writeInput("sample.json", sampleExport)
		output := filepath.Join(dir, "sample.md")

		_, err := converter.ConvertFile(input, output)
		Expect(err).NotTo(HaveOccurred())
		first, err := os.ReadFile(output)
		Expect(err).NotTo(HaveOccurred())

		_, err = converter.ConvertFile(input, output)
		Expect(err).NotTo(HaveOccurred())
		second, err := os.ReadFile(output)
		Expect(err).NotTo(HaveOccurred())

		Expect(second).To(Equal(first))
	})

	It("fails on a missing input file", func() {
		_, err := converter.ConvertFile(filepath.Join(dir, "absent.json"), "")
		Expect(err).To(HaveOccurred())
	})

	It("fails on malformed JSON", func() {
		input := writeInput("bad.json", "{not json")

		_, err := converter.ConvertFile(input, "")
		Expect(err).To(HaveOccurred())
	})
})
