package main

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"auto_presentation_generator/assembler"
	"auto_presentation_generator/generator"
	"auto_presentation_generator/imagesearch"
	"auto_presentation_generator/logger"
	"auto_presentation_generator/metrics"
	"auto_presentation_generator/publisher"
	"auto_presentation_generator/server"
)

// CLI holds what every subcommand shares once flags are parsed.
type CLI struct {
	configPath string
	verbose    bool

	cfg     publisher.Config
	log     logger.Logger
	metrics *metrics.Metrics
}

func newRootCommand() *cobra.Command {
	cli := &CLI{}
	root := &cobra.Command{
		Use:           "autopresent",
		Short:         "Generate outlines (.docx) and slide decks (.pptx) with a language model",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return cli.initialize()
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if cli.log != nil {
				_ = cli.log.Sync()
			}
		},
	}
	root.PersistentFlags().StringVar(&cli.configPath, "config", "config/config.yaml", "path to config.yaml")
	root.PersistentFlags().BoolVarP(&cli.verbose, "verbose", "v", false, "enable debug logs")

	root.AddCommand(
		newOutlineCommand(cli),
		newDeckCommand(cli),
		newRenderCommand(cli),
		newServeCommand(cli),
		newCatalogCommand(),
	)
	return root
}

func (c *CLI) initialize() error {
	cfg, err := publisher.LoadConfig(c.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if c.verbose {
		cfg.Log.Level = "debug"
	}
	log, err := logger.New(cfg.Log)
	if err != nil {
		return err
	}
	c.cfg = cfg
	c.log = log
	c.metrics = metrics.New()
	return nil
}

// buildPublisher wires the pipeline. The completion backend is only built when
// the command talks to the model.
func (c *CLI) buildPublisher(withLLM bool) (*publisher.Publisher, error) {
	var agent *generator.Agent
	if withLLM {
		llm, err := buildLLM(c.cfg)
		if err != nil {
			return nil, err
		}
		if agent, err = generator.NewAgent(llm); err != nil {
			return nil, err
		}
	}
	images := imagesearch.New(&http.Client{}, c.cfg.Images.Resolver(), c.log)
	asm := assembler.New(images, c.cfg.Images.Assembler(), c.log, c.metrics)
	return publisher.New(agent, asm, publisher.NewTemplates(c.cfg.TemplatesDir), c.log, c.metrics)
}

func buildLLM(cfg publisher.Config) (generator.LLMClient, error) {
	if cfg.LLM == nil || cfg.LLM.Provider == "" {
		return nil, fmt.Errorf("llm config missing; please set llm.provider/model/api_key in config")
	}
	switch cfg.LLM.Provider {
	case "openai":
		return generator.NewOpenAILLMFromConfig(cfg.LLM.Settings())
	case "deepseek":
		// DeepSeek 提供 OpenAI 兼容接口，需填写 base_url（例如官方/网关地址）。
		if cfg.LLM.BaseURL == "" {
			return nil, fmt.Errorf("llm provider deepseek requires base_url (OpenAI-compatible endpoint)")
		}
		return generator.NewOpenAILLMFromConfig(cfg.LLM.Settings())
	case "mock":
		return generator.MockLLM{}, nil
	default:
		return nil, fmt.Errorf("llm provider %s not supported", cfg.LLM.Provider)
	}
}

type specFlags struct {
	topic    string
	language string
	style    string
	out      string
}

func (f *specFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.topic, "topic", "", "document topic (required)")
	cmd.Flags().StringVar(&f.language, "language", generator.DefaultLanguage, "output language")
	cmd.Flags().StringVar(&f.style, "style", generator.DefaultStyle, "writing style")
	cmd.Flags().StringVarP(&f.out, "out", "o", ".", "output directory")
	_ = cmd.MarkFlagRequired("topic")
}

func newOutlineCommand(cli *CLI) *cobra.Command {
	var f specFlags
	cmd := &cobra.Command{
		Use:   "outline",
		Short: "Generate a research outline as .docx",
		RunE: func(cmd *cobra.Command, _ []string) error {
			spec := generator.Spec{Kind: generator.KindOutline, Topic: f.topic, Language: f.language, Style: f.style}
			return cli.generate(cmd, spec, f.out)
		},
	}
	f.bind(cmd)
	return cmd
}

func newDeckCommand(cli *CLI) *cobra.Command {
	var (
		f        specFlags
		slides   int
		template string
	)
	cmd := &cobra.Command{
		Use:   "deck",
		Short: "Generate a slide deck as .pptx",
		RunE: func(cmd *cobra.Command, _ []string) error {
			spec := generator.Spec{
				Kind:     generator.KindDeck,
				Topic:    f.topic,
				Language: f.language,
				Style:    f.style,
				Slides:   slides,
				Template: template,
			}
			return cli.generate(cmd, spec, f.out)
		},
	}
	f.bind(cmd)
	cmd.Flags().IntVar(&slides, "slides", generator.DefaultSlides, "approximate number of slides")
	cmd.Flags().StringVar(&template, "template", generator.DefaultTemplate, "slide template name")
	return cmd
}

func (c *CLI) generate(cmd *cobra.Command, spec generator.Spec, outDir string) error {
	pub, err := c.buildPublisher(true)
	if err != nil {
		return err
	}
	res, err := pub.Generate(cmd.Context(), spec)
	if err != nil {
		return fmt.Errorf("%s (%w)", publisher.UserMessage(err), err)
	}
	return writeResult(cmd.OutOrStdout(), res, outDir)
}

func newRenderCommand(cli *CLI) *cobra.Command {
	var (
		kind     string
		in       string
		template string
		out      string
		preview  bool
	)
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Build a document from an existing tagged completion",
		Long: `Read a completion that uses the [TITLE]...[/TITLE] tag format and build the
document without calling the model. Use --in - to read from stdin.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			k, err := generator.ParseKind(kind)
			if err != nil {
				return err
			}
			text, err := readInput(cmd.InOrStdin(), in)
			if err != nil {
				return err
			}
			if preview {
				html, err := publisher.RenderPreview(k, text)
				if err != nil {
					return err
				}
				_, err = io.WriteString(cmd.OutOrStdout(), html)
				return err
			}
			pub, err := cli.buildPublisher(false)
			if err != nil {
				return err
			}
			res, err := pub.Render(cmd.Context(), k, text, template)
			if err != nil {
				return err
			}
			return writeResult(cmd.OutOrStdout(), res, out)
		},
	}
	cmd.Flags().StringVar(&kind, "kind", string(generator.KindOutline), "outline or deck")
	cmd.Flags().StringVar(&in, "in", "-", "completion text file")
	cmd.Flags().StringVar(&template, "template", generator.DefaultTemplate, "slide template name (deck only)")
	cmd.Flags().StringVarP(&out, "out", "o", ".", "output directory")
	cmd.Flags().BoolVar(&preview, "preview", false, "print an HTML preview instead of writing the document")
	return cmd
}

func newServeCommand(cli *CLI) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			pub, err := cli.buildPublisher(true)
			if err != nil {
				return err
			}
			srv, err := server.New(pub, cli.log, cli.metrics, server.Options{})
			if err != nil {
				return err
			}
			listen := cli.cfg.ServerAddr
			if addr != "" {
				listen = addr
			}
			return srv.Run(cmd.Context(), listen)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config server_addr)")
	return cmd
}

func newCatalogCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "List supported languages, styles, templates and slide counts",
		// 目录是静态的，不需要加载配置。
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "languages: %s\n", strings.Join(generator.Languages, ", "))
			fmt.Fprintf(w, "styles:    %s\n", strings.Join(generator.Styles, ", "))
			fmt.Fprintf(w, "templates: %s\n", strings.Join(generator.Templates, ", "))
			fmt.Fprintf(w, "slides:    %d-%d\n", generator.MinSlides, generator.MaxSlides)
			return nil
		},
	}
}

func readInput(stdin io.Reader, path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "" || path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("read completion: %w", err)
	}
	return generator.PostProcess(string(data)), nil
}

func writeResult(w io.Writer, res *publisher.Result, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	path := filepath.Join(dir, res.Filename)
	if err := os.WriteFile(path, res.Data, 0o644); err != nil {
		return err
	}
	fmt.Fprintf(w, "%s -> %s\n", res, path)
	return nil
}
