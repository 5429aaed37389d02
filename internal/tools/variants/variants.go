// Package variants is a line-oriented inspector for hero costumes and boss
// models. It drives the same session and picker state the web picker uses.
package variants

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	entrypoint "github.com/louisbranch/herowiki/internal/platform/cmd"
	apperrors "github.com/louisbranch/herowiki/internal/platform/errors"
	server "github.com/louisbranch/herowiki/internal/services/models/app"
	"github.com/louisbranch/herowiki/internal/services/models/catalog"
	"github.com/louisbranch/herowiki/internal/services/models/entity"
	"github.com/louisbranch/herowiki/internal/services/models/loader"
	"github.com/louisbranch/herowiki/internal/services/models/parts"
	"github.com/louisbranch/herowiki/internal/services/models/selection"
)

const locale = "en-US"

const helpText = `commands:
  hero <id>    load a hero's costumes
  boss <id>    load a boss's models
  options      list variants in source order
  open         expand the picker
  close        collapse the picker
  pick <key>   choose a variant from the open picker
  render       show the parts that render for the selection
  status       show the current entity and picker state
  quit         exit
`

// Config holds inspector configuration.
type Config struct {
	DataDir    string `env:"HEROWIKI_DATA_DIR" envDefault:"data/lake"`
	DBPath     string `env:"HEROWIKI_MODELS_DB_PATH"`
	LabelsPath string `env:"HEROWIKI_LABELS_PATH"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	fs.StringVar(&cfg.DataDir, "data-dir", "data/lake", "raw data lake directory")
	fs.StringVar(&cfg.DBPath, "db-path", "", "imported models database; overrides -data-dir when set")
	fs.StringVar(&cfg.LabelsPath, "labels", "", "optional YAML file with display name overrides")
	if err := entrypoint.ParseConfigFromArgs(&cfg, fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run opens the configured source and serves commands from in until EOF or
// quit.
func Run(ctx context.Context, cfg Config, in io.Reader, out io.Writer) error {
	source, closer, err := server.OpenSource(server.Config{
		DataDir:    cfg.DataDir,
		DBPath:     cfg.DBPath,
		LabelsPath: cfg.LabelsPath,
	})
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer.Close()
	}
	inspector := NewInspector(source, out)
	inspector.Prompt = "> "
	return inspector.Serve(ctx, in)
}

// Inspector holds one interactive session.
type Inspector struct {
	// Prompt is written before each command when set.
	Prompt string

	session  *loader.Session
	picker   selection.Picker
	selected string
	out      *printer
}

// NewInspector creates an inspector reading catalogs from source.
func NewInspector(source loader.Source, out io.Writer) *Inspector {
	if out == nil {
		out = io.Discard
	}
	return &Inspector{session: loader.NewSession(source), out: &printer{w: out}}
}

// Serve executes commands from in. It stops at EOF, on quit, or when ctx is
// canceled.
func (i *Inspector) Serve(ctx context.Context, in io.Reader) error {
	if ctx == nil {
		ctx = context.Background()
	}
	defer i.session.Close()

	scanner := bufio.NewScanner(in)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if i.Prompt != "" {
			i.out.printf("%s", i.Prompt)
		}
		if !scanner.Scan() {
			break
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if fields[0] == "quit" || fields[0] == "exit" {
			return i.out.err
		}
		if err := i.exec(ctx, fields[0], fields[1:]); err != nil {
			return err
		}
		if i.out.err != nil {
			return i.out.err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read commands: %w", err)
	}
	return i.out.err
}

func (i *Inspector) exec(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "hero", "boss":
		if len(args) != 1 {
			i.out.printf("usage: %s <id>\n", cmd)
			return nil
		}
		return i.load(ctx, cmd, args[0])
	case "options":
		i.options()
	case "open":
		i.open()
	case "close":
		if i.picker.Dismiss() {
			i.out.printf("picker closed\n")
		} else {
			i.out.printf("picker already closed\n")
		}
	case "pick":
		if len(args) != 1 {
			i.out.printf("usage: pick <key>\n")
			return nil
		}
		i.pick(args[0])
	case "render":
		i.render()
	case "status":
		i.status()
	case "help":
		i.out.printf("%s", helpText)
	default:
		i.out.printf("error: unknown command %q (try help)\n", cmd)
	}
	return nil
}

func (i *Inspector) load(ctx context.Context, kind, id string) error {
	ref, err := entity.NewRef(kind, id)
	if err != nil {
		i.out.printf("error: %v\n", err)
		return nil
	}

	i.session.Open(ctx, ref)
	i.picker.Reset()
	i.selected = ""
	loading := i.session.Snapshot()
	i.out.printf("loading %s %ss...\n", loading.Info.Name, ref.Kind.Noun())

	snap, err := i.session.Wait(ctx)
	if err != nil {
		return err
	}
	if snap.Err != nil {
		i.out.printf("error: %s\n", apperrors.As(snap.Err).UserMessage(locale))
		return nil
	}
	i.out.printf("%s: %d %s(s), %d issue(s)\n", snap.Info.Name, snap.Catalog.Len(), ref.Kind.Noun(), len(snap.Issues))
	for _, issue := range snap.Issues {
		i.out.printf("  %s\n", issue)
	}
	return nil
}

// loaded returns the current snapshot when an entity catalog is available.
func (i *Inspector) loaded() (loader.Snapshot, bool) {
	snap := i.session.Snapshot()
	if snap.Generation == 0 || snap.Err != nil {
		i.out.printf("error: load a hero or boss first\n")
		return snap, false
	}
	return snap, true
}

func (i *Inspector) props(snap loader.Snapshot) selection.Props {
	sel := selection.Selection{Key: i.selected, Open: i.picker.IsOpen(), Loading: snap.Loading}
	onSelect := func(key string) { i.selected = key }
	if snap.Ref.Kind == entity.KindBoss {
		return selection.BossModelProps(snap.Catalog, sel, onSelect)
	}
	return selection.HeroCostumeProps(snap.Catalog, sel, onSelect)
}

func (i *Inspector) options() {
	snap, ok := i.loaded()
	if !ok {
		return
	}
	opts := catalog.Options(snap.Catalog)
	if len(opts) == 0 {
		i.out.printf("no %ss\n", snap.Ref.Kind.Noun())
		return
	}
	rows := make([][]string, 0, len(opts))
	for _, opt := range opts {
		rows = append(rows, []string{opt.Key, opt.DisplayName})
	}
	i.out.table(rows)
}

func (i *Inspector) open() {
	snap, ok := i.loaded()
	if !ok {
		return
	}
	i.picker.Activate()
	view := i.props(snap).View()
	if view.Loading {
		i.out.printf("loading %ss...\n", snap.Ref.Kind.Noun())
		return
	}
	if len(view.Items) == 0 {
		i.out.printf("no %ss\n", snap.Ref.Kind.Noun())
		return
	}
	i.out.printf("%s %ss (current: %s)\n", snap.Info.Name, snap.Ref.Kind.Noun(), view.Label)
	rows := make([][]string, 0, len(view.Items))
	for _, item := range view.Items {
		marker := " "
		if item.Selected {
			marker = "*"
		}
		rows = append(rows, []string{marker, item.Key, item.Label, partCount(item.PartCount), weaponList(item.Weapons)})
	}
	i.out.table(rows)
}

func (i *Inspector) pick(key string) {
	snap, ok := i.loaded()
	if !ok {
		return
	}
	if !i.picker.IsOpen() {
		i.out.printf("error: open the picker first\n")
		return
	}
	props := i.props(snap)
	if !props.Pick(&i.picker, key) {
		i.out.printf("error: unknown %s %q\n", snap.Ref.Kind.Noun(), key)
		return
	}
	i.out.printf("selected %s\n", props.Format(key))
}

func (i *Inspector) render() {
	snap, ok := i.loaded()
	if !ok {
		return
	}
	res := selection.Resolve(snap.Catalog, i.selected, snap.Loading)
	switch {
	case res.Loading:
		i.out.printf("loading %ss...\n", snap.Ref.Kind.Noun())
		return
	case res.Key == "":
		i.out.printf("nothing to render\n")
		return
	}

	label := i.props(snap).Format(res.Key)
	if res.Fallback && res.Requested != "" {
		i.out.printf("%s (%s), %q is unavailable\n", res.Key, label, res.Requested)
	} else {
		i.out.printf("%s (%s)\n", res.Key, label)
	}
	if len(res.Parts) == 0 {
		i.out.printf("no parts\n")
		return
	}
	rows := make([][]string, 0, len(res.Parts))
	for _, part := range res.Parts {
		rows = append(rows, []string{part.Name, string(part.Type), part.Path, describeTextures(part.Textures)})
	}
	i.out.table(rows)
}

func (i *Inspector) status() {
	snap := i.session.Snapshot()
	if snap.Generation == 0 {
		i.out.printf("idle\n")
		return
	}
	state := "ready"
	switch {
	case snap.Loading:
		state = "loading"
	case snap.Err != nil:
		state = "failed"
	}
	selected := i.selected
	if selected == "" {
		selected = "-"
	}
	i.out.printf("%s %s, picker %s, selected %s\n", snap.Ref, state, i.picker.State(), selected)
}

func partCount(n int) string {
	if n == 1 {
		return "1 part"
	}
	return fmt.Sprintf("%d parts", n)
}

func weaponList(types []parts.Type) string {
	names := make([]string, 0, len(types))
	for _, t := range types {
		names = append(names, string(t))
	}
	return strings.Join(names, ",")
}

func describeTextures(set parts.TextureSet) string {
	var fields []string
	add := func(name, value string) {
		if value != "" {
			fields = append(fields, name+"="+value)
		}
	}
	if hair, ok := set.Hair(); ok {
		add("hair", hair.Hair)
		add("ornament", hair.Ornament)
	} else if standard, ok := set.Standard(); ok {
		add("diffuse", standard.Diffuse)
		add("eye", standard.Eye)
		add("wing", standard.Wing)
		add("arm", standard.Arm)
	}
	return strings.Join(fields, " ")
}
