package chatcmder

import (
	"bytes"
	"context"
	"errors"
	"net"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/tahadhari/tahadhari/gateway"
	"github.com/tahadhari/tahadhari/pkg/conversation"
	"github.com/tahadhari/tahadhari/pkg/llm"
	"github.com/tahadhari/tahadhari/pkg/provider/providertest"
	"github.com/tahadhari/tahadhari/pkg/transcript"
)

var pngHeader = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0x00}

var _ = Describe("Chat Command", func() {
	var (
		stdout *bytes.Buffer
		stderr *bytes.Buffer
		fake   *providertest.Provider
		addr   string
		stop   func()
	)

	BeforeEach(func() {
		stdout = &bytes.Buffer{}
		stderr = &bytes.Buffer{}
		fake = providertest.New("Stay indoors.")

		srv := gateway.NewServerWithProvider(gateway.DefaultConfig(), fake, zap.NewNop())
		listener, err := net.Listen("tcp", "127.0.0.1:0")
		Expect(err).NotTo(HaveOccurred())
		go func() {
			_ = srv.RunWithListener(listener)
		}()
		addr = "http://" + listener.Addr().String()
		stop = func() { _ = srv.Shutdown() }
	})

	AfterEach(func() {
		stop()
	})

	execute := func(input string, args ...string) error {
		cmd := NewChatCmd()
		cmd.SetIn(strings.NewReader(input))
		cmd.SetOut(stdout)
		cmd.SetErr(stderr)
		cmd.SetArgs(append([]string{"--server", addr}, args...))
		return cmd.Execute()
	}

	It("answers each line in line mode", func() {
		Expect(execute("flood status\n\nroad status\n")).To(Succeed())
		Expect(stdout.String()).To(Equal("Stay indoors.\nStay indoors.\n"))
		Expect(fake.Calls()).To(Equal(2))
	})

	It("stops at /quit", func() {
		Expect(execute("first\n/quit\nsecond\n")).To(Succeed())
		Expect(fake.Calls()).To(Equal(1))
	})

	It("logs the transcript summary when the session ends", func() {
		Expect(execute("first\n/quit\n", "--debug")).To(Succeed())
		Expect(stderr.String()).To(ContainSubstring("chat ended"))
		Expect(stderr.String()).To(ContainSubstring(`"prompts": 1`))
		Expect(stderr.String()).To(ContainSubstring(`"replies": 1`))
	})

	It("switches language with /lang", func() {
		Expect(execute("/lang sw\nhabari\n")).To(Succeed())
		Expect(stdout.String()).To(ContainSubstring("Msaidizi wa AI"))
		Expect(fake.Requests()[0].System()).To(ContainSubstring("Kiswahili"))
	})

	It("attaches and drops images", func() {
		path := filepath.Join(GinkgoT().TempDir(), "road.png")
		Expect(os.WriteFile(path, pngHeader, 0o600)).To(Succeed())

		Expect(execute("/image " + path + "\nwhat is this\n/image " + path + "\n/noimage\nand now\n")).To(Succeed())
		Expect(stdout.String()).To(ContainSubstring("Image selected: road.png"))

		reqs := fake.Requests()
		Expect(reqs).To(HaveLen(2))
		Expect(reqs[0].Model).To(Equal(gateway.DefaultVisionModel))
		Expect(reqs[1].Model).To(Equal(gateway.DefaultTextModel))
	})

	It("prints the localized failure and keeps going", func() {
		fake.CompleteFunc = func(context.Context, *llm.ChatRequest) (string, error) {
			return "", errors.New("rate limited")
		}

		Expect(execute("flood status\n")).To(Succeed())
		Expect(stderr.String()).To(ContainSubstring("Failed to generate response. Please try again."))
		Expect(stdout.String()).To(BeEmpty())
	})

	It("reports missing dictation support", func() {
		Expect(execute("/dictate\n")).To(Succeed())
		Expect(stderr.String()).To(ContainSubstring("Speech recognition is not available on this system"))
	})

	It("sends the dictated prompt on an empty line", func() {
		if runtime.GOOS == "windows" {
			Skip("shell scripts are not executable on windows")
		}
		script := filepath.Join(GinkgoT().TempDir(), "dictate")
		Expect(os.WriteFile(script, []byte("#!/bin/sh\necho \"water on the road\"\n"), 0o755)).To(Succeed())

		Expect(execute("/dictate\n\n", "--dictation-cmd", script)).To(Succeed())
		Expect(stdout.String()).To(ContainSubstring("Speak: water on the road"))

		user, _ := fake.Requests()[0].LastUser()
		Expect(user.Text()).To(Equal("water on the road"))
	})

	It("reports unknown commands", func() {
		Expect(execute("/teleport\n")).To(Succeed())
		Expect(stderr.String()).To(ContainSubstring("unknown command: /teleport"))
	})
})

var _ = Describe("chatModel", func() {
	var (
		ctrl  *conversation.Controller
		model *chatModel
		fake  *fakeCompleter
	)

	BeforeEach(func() {
		fake = &fakeCompleter{reply: "**Evacuate** now."}
		ctrl = conversation.New(conversation.NewSession(llm.LanguagePrimary), fake)
		model = newChatModel(context.Background(), ctrl)
		model.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	})

	It("submits the input and renders the reply", func() {
		model.textarea.SetValue("flood status")
		_, cmd := model.Update(tea.KeyMsg{Type: tea.KeyEnter})
		Expect(cmd).NotTo(BeNil())
		Expect(model.waiting).To(BeTrue())
		Expect(model.textarea.Value()).To(BeEmpty())

		model.Update(model.submit("flood status")())
		Expect(model.waiting).To(BeFalse())

		entries := ctrl.Transcript()
		Expect(entries).To(HaveLen(2))
		Expect(entries[0].Author).To(Equal(transcript.AuthorUser))
		Expect(model.View()).To(ContainSubstring("Evacuate"))
		Expect(model.View()).To(ContainSubstring("(2) #" + entries[1].Hash[:8]))
	})

	It("ignores empty input", func() {
		model.textarea.SetValue("   ")
		_, cmd := model.Update(tea.KeyMsg{Type: tea.KeyEnter})
		Expect(cmd).To(BeNil())
		Expect(model.waiting).To(BeFalse())
	})

	It("shows the surfaced failure", func() {
		fake.err = llm.ErrGatewayUnavailable
		model.Update(model.submit("flood status")())
		Expect(model.failure).To(Equal("Failed to generate response. Please try again."))
		Expect(model.View()).To(ContainSubstring("Failed to generate response"))
	})

	It("runs slash commands without contacting the gateway", func() {
		model.textarea.SetValue("/lang secondary")
		model.Update(tea.KeyMsg{Type: tea.KeyEnter})

		Expect(ctrl.Session().Language()).To(Equal(llm.LanguageSecondary))
		Expect(model.textarea.Placeholder).To(Equal("Andika ujumbe wako..."))
		Expect(model.View()).To(ContainSubstring("Msaidizi wa AI"))
		Expect(fake.calls).To(BeZero())
	})

	It("quits on /quit", func() {
		model.textarea.SetValue("/quit")
		_, cmd := model.Update(tea.KeyMsg{Type: tea.KeyEnter})
		Expect(cmd).NotTo(BeNil())
		Expect(cmd()).To(Equal(tea.QuitMsg{}))
	})

	It("fills the input from dictation", func() {
		model.listening = true
		model.Update(dictationMsg{text: "maji yanapanda"})
		Expect(model.listening).To(BeFalse())
		Expect(model.textarea.Value()).To(Equal("maji yanapanda"))
	})
})

type fakeCompleter struct {
	reply string
	err   error
	calls int
}

func (f *fakeCompleter) Complete(context.Context, llm.ExchangeRequest) (string, error) {
	f.calls++
	return f.reply, f.err
}
