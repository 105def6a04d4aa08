package batch

import (
	"context"
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Watch", func() {
	var (
		inputDir  string
		outputDir string
		cancel    context.CancelFunc
		watchDone chan error
	)

	BeforeEach(func() {
		base := GinkgoT().TempDir()
		inputDir = filepath.Join(base, "raw")
		outputDir = filepath.Join(base, "markdown")
		Expect(os.MkdirAll(inputDir, 0o755)).To(Succeed())

		var ctx context.Context
		ctx, cancel = context.WithCancel(context.Background())

		runner := NewRunner(Options{Location: time.UTC})
		watchDone = make(chan error, 1)
		go func() {
			watchDone <- runner.Watch(ctx, inputDir, outputDir)
		}()

		// Give the watcher a moment to register the tree.
		time.Sleep(100 * time.Millisecond)
	})

	AfterEach(func() {
		cancel()
		Eventually(watchDone, "2s").Should(Receive(MatchError(context.Canceled)))
	})

	It("converts a file dropped into the watched directory", func() {
		input := filepath.Join(inputDir, "new.json")
		Expect(os.WriteFile(input, []byte(goodConversation), 0o644)).To(Succeed())

		Eventually(filepath.Join(outputDir, "new.md"), "5s").Should(BeAnExistingFile())
	})

	It("ignores non-conversation files", func() {
		Expect(os.WriteFile(filepath.Join(inputDir, "index.json"), []byte("[]"), 0o644)).To(Succeed())
		Expect(os.WriteFile(filepath.Join(inputDir, "notes.txt"), []byte("x"), 0o644)).To(Succeed())

		Consistently(filepath.Join(outputDir, "index.md"), "500ms").ShouldNot(BeAnExistingFile())
		Consistently(filepath.Join(outputDir, "notes.md"), "500ms").ShouldNot(BeAnExistingFile())
	})

	It("picks up files in nested directories created after the watch starts", func() {
		// MkdirAll only raises a Create event for the topmost new directory;
		// the subtree below it must still be watched.
		subDir := filepath.Join(inputDir, "2025", "05")
		Expect(os.MkdirAll(subDir, 0o755)).To(Succeed())
		Expect(os.WriteFile(filepath.Join(subDir, "late.json"), []byte(goodConversation), 0o644)).To(Succeed())

		Eventually(filepath.Join(outputDir, "2025", "05", "late.md"), "5s").Should(BeAnExistingFile())
	})

	It("converts files already inside a directory that appears in one step", func() {
		// A rename drops a fully-populated tree into the watched root; the
		// files inside never produce their own Create events.
		staging := filepath.Join(GinkgoT().TempDir(), "06")
		Expect(os.MkdirAll(staging, 0o755)).To(Succeed())
		Expect(os.WriteFile(filepath.Join(staging, "moved.json"), []byte(goodConversation), 0o644)).To(Succeed())

		Expect(os.Rename(staging, filepath.Join(inputDir, "06"))).To(Succeed())

		Eventually(filepath.Join(outputDir, "06", "moved.md"), "5s").Should(BeAnExistingFile())
	})
})
