package app

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/zurustar/varholder/pkg/cli"
	"github.com/zurustar/varholder/pkg/logger"
	"github.com/zurustar/varholder/pkg/script"
	"github.com/zurustar/varholder/pkg/value"
	"github.com/zurustar/varholder/pkg/vars"
	"github.com/zurustar/varholder/pkg/vm"
)

// Application はアプリケーションのメインロジックを管理する
type Application struct {
	config *cli.Config
	log    *slog.Logger
	out    io.Writer
}

// New Applicationを作成
func New(out io.Writer) *Application {
	return &Application{
		out: out,
	}
}

// Run アプリケーションを実行
func (app *Application) Run(args []string) error {
	// 1. コマンドライン引数の解析
	if err := app.parseArgs(args); err != nil {
		return fmt.Errorf("failed to parse args: %w", err)
	}

	if app.config.ShowHelp {
		cli.PrintHelp()
		return nil
	}

	if app.config.DefinitionPath == "" {
		return fmt.Errorf("no definition given (see --help)")
	}

	// 2. ロガーの初期化
	if err := app.initLogger(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	// 3. 定義の読み込み
	def, err := app.loadDefinition()
	if err != nil {
		return fmt.Errorf("failed to load definition: %w", err)
	}

	app.log.Info("Definition loaded", "name", def.Name, "objects", len(def.Objects), "variables", def.VariableCount())

	// 4. インスタンスの作成
	inst, err := vm.NewInstance(def, vm.WithLogger(app.log))
	if err != nil {
		return fmt.Errorf("failed to create instance: %w", err)
	}

	// 5. 変数の解決と代入
	if err := app.runQueries(inst); err != nil {
		return err
	}

	// 6. スナップショットの書き出し
	if app.config.SnapshotPath != "" {
		if err := app.writeSnapshot(inst); err != nil {
			return fmt.Errorf("failed to write snapshot: %w", err)
		}
	}

	return nil
}

// parseArgs コマンドライン引数を解析
func (app *Application) parseArgs(args []string) error {
	config, err := cli.ParseArgs(args)
	if err != nil {
		return err
	}
	app.config = config
	return nil
}

// initLogger ロガーを初期化
func (app *Application) initLogger() error {
	if err := logger.InitLogger(app.config.LogLevel); err != nil {
		return err
	}
	app.log = logger.GetLogger()
	return nil
}

// loadDefinition ファイルまたはディレクトリから定義を読み込む
func (app *Application) loadDefinition() (*script.Definition, error) {
	path := app.config.DefinitionPath
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	loader := script.NewLoader(path)
	if !info.IsDir() {
		return loader.Load(path)
	}

	defs, err := loader.LoadAll()
	if err != nil {
		return nil, err
	}

	if app.config.ScriptName != "" {
		for name, def := range defs {
			if strings.EqualFold(name, app.config.ScriptName) {
				return def, nil
			}
		}
		return nil, fmt.Errorf("definition %q not found in %s", app.config.ScriptName, path)
	}
	if len(defs) != 1 {
		return nil, fmt.Errorf("%s holds %d definitions, choose one with --script", path, len(defs))
	}
	var only *script.Definition
	for _, def := range defs {
		only = def
	}
	return only, nil
}

// runQueries 位置引数の変数を順に代入・表示する
func (app *Application) runQueries(inst *vm.Instance) error {
	for _, q := range app.config.Queries {
		h, err := inst.Handle(q.Name)
		if err != nil {
			return err
		}

		if q.Assign {
			v, err := parseAssignment(*h, q.Value)
			if err != nil {
				return fmt.Errorf("%s: %w", q.Name, err)
			}
			if vars.IsStateToken(q.Name) {
				s, _ := v.AsString()
				if err := inst.RecordState(s); err != nil {
					return err
				}
			} else if err := inst.SetVariable(q.Name, v); err != nil {
				return err
			}
		}

		fmt.Fprintf(app.out, "%s = %s\n", q.Name, h)
	}
	return nil
}

// writeSnapshot インスタンスの変数をCBORで書き出す
func (app *Application) writeSnapshot(inst *vm.Instance) error {
	data, err := inst.Holder().Snapshot()
	if err != nil {
		return err
	}
	if err := os.WriteFile(app.config.SnapshotPath, data, 0644); err != nil {
		return err
	}
	app.log.Info("Snapshot written", "path", app.config.SnapshotPath, "bytes", len(data))
	return nil
}

// parseAssignment 現在の値の型に合わせて文字列を変換する
func parseAssignment(current value.Value, raw string) (value.Value, error) {
	switch current.Kind() {
	case value.KindInt:
		n, err := strconv.ParseInt(raw, 10, 32)
		if err != nil {
			return value.None(), fmt.Errorf("invalid int %q: %w", raw, err)
		}
		return value.Int(int32(n)), nil
	case value.KindFloat:
		f, err := strconv.ParseFloat(raw, 32)
		if err != nil {
			return value.None(), fmt.Errorf("invalid float %q: %w", raw, err)
		}
		return value.Float(float32(f)), nil
	case value.KindBool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return value.None(), fmt.Errorf("invalid bool %q: %w", raw, err)
		}
		return value.Bool(b), nil
	case value.KindObject:
		ref, _ := current.AsObject()
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return value.None(), fmt.Errorf("invalid object id %q: %w", raw, err)
		}
		return value.Object(value.ObjectRef{Type: ref.Type, ID: id}), nil
	default:
		return value.String(raw), nil
	}
}
