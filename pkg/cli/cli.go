package cli

import (
	"flag"
	"fmt"
	"os"
	"strings"
)

// Query は位置引数で指定された変数参照または代入を表す
type Query struct {
	Name   string // 変数名（::State も可）
	Value  string // 代入する値（Assignがtrueの場合のみ）
	Assign bool   // name=value 形式かどうか
}

// Config はコマンドライン引数から解析された設定を保持する
type Config struct {
	DefinitionPath string  // スクリプト定義ファイル（.toml）またはディレクトリ
	ScriptName     string  // ディレクトリ指定時に使う定義名
	Queries        []Query // 解決・代入する変数
	SnapshotPath   string  // CBORスナップショットの出力先（空なら出力しない）
	LogLevel       string  // ログレベル（debug, info, warn, error）
	ShowHelp       bool    // ヘルプ表示フラグ
}

// ParseArgs コマンドライン引数を解析してConfigを返す
func ParseArgs(args []string) (*Config, error) {
	// 引数を並べ替え：フラグを前に、位置引数を後ろに
	reorderedArgs := reorderArgs(args)

	fs := flag.NewFlagSet("varholder", flag.ContinueOnError)

	config := &Config{}

	fs.StringVar(&config.ScriptName, "script", "", "定義名（ディレクトリ指定時）")
	fs.StringVar(&config.ScriptName, "s", "", "定義名（短縮形）")
	fs.StringVar(&config.SnapshotPath, "snapshot", "", "スナップショットの出力先")
	fs.StringVar(&config.SnapshotPath, "o", "", "スナップショットの出力先（短縮形）")
	fs.StringVar(&config.LogLevel, "log-level", "info", "ログレベル（debug, info, warn, error）")
	fs.StringVar(&config.LogLevel, "l", "info", "ログレベル（短縮形）")
	fs.BoolVar(&config.ShowHelp, "help", false, "ヘルプを表示")
	fs.BoolVar(&config.ShowHelp, "h", false, "ヘルプを表示（短縮形）")

	if err := fs.Parse(reorderedArgs); err != nil {
		return nil, err
	}

	// 環境変数からの設定（コマンドラインフラグが優先）
	if config.SnapshotPath == "" {
		config.SnapshotPath = os.Getenv("VARHOLDER_SNAPSHOT")
	}

	if config.LogLevel == "info" {
		if logLevelEnv := os.Getenv("LOG_LEVEL"); logLevelEnv != "" {
			config.LogLevel = strings.ToLower(logLevelEnv)
		}
	}

	// ログレベルの検証
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[config.LogLevel] {
		return nil, fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", config.LogLevel)
	}

	// 最初の位置引数は定義のパス、残りは変数
	if fs.NArg() > 0 {
		config.DefinitionPath = fs.Arg(0)
	}
	for _, arg := range fs.Args()[min(1, fs.NArg()):] {
		q, err := parseQuery(arg)
		if err != nil {
			return nil, err
		}
		config.Queries = append(config.Queries, q)
	}

	return config, nil
}

// parseQuery "name" または "name=value" を解析する
func parseQuery(arg string) (Query, error) {
	name, val, assign := strings.Cut(arg, "=")
	name = strings.TrimSpace(name)
	if name == "" {
		return Query{}, fmt.Errorf("missing variable name in %q", arg)
	}
	return Query{Name: name, Value: val, Assign: assign}, nil
}

// reorderArgs 引数を並べ替えて、フラグを前に、位置引数を後ろに配置する
func reorderArgs(args []string) []string {
	var flags []string
	var positional []string

	for i := 0; i < len(args); i++ {
		arg := args[i]

		// フラグかどうかを判定（-または--で始まる）
		if len(arg) > 0 && arg[0] == '-' {
			flags = append(flags, arg)

			// 次の引数が値である可能性をチェック
			if i+1 < len(args) && len(args[i+1]) > 0 && args[i+1][0] != '-' {
				// ブール型フラグでない場合は次の引数も追加
				if arg != "-h" && arg != "--help" && !strings.Contains(arg, "=") {
					i++
					flags = append(flags, args[i])
				}
			}
		} else {
			// 位置引数
			positional = append(positional, arg)
		}
	}

	// フラグを前に、位置引数を後ろに配置
	return append(flags, positional...)
}

// PrintHelp ヘルプメッセージを表示
func PrintHelp() {
	fmt.Fprintf(os.Stdout, `varholder - script variable inspector

Usage:
  varholder [options] <definition> [name | name=value]...

Arguments:
  definition    スクリプト定義ファイル（.toml）、または定義ファイルを含むディレクトリ
  name          解決して表示する変数名（大文字小文字を区別しない、::State で現在の状態）
  name=value    変数に値を代入してから表示

Options:
  -s, --script <name>         ディレクトリ指定時に使う定義名
  -o, --snapshot <path>       実行後の変数をCBORスナップショットとして書き出す
  -l, --log-level <level>     ログレベル: debug, info, warn, error（デフォルト: info）
  -h, --help                  このヘルプを表示

Environment Variables:
  VARHOLDER_SNAPSHOT=<path>   スナップショットの出力先
  LOG_LEVEL=<level>           ログレベル

Examples:
  varholder counter.toml ::State iCount
  varholder counter.toml iCount=7 ::State=Running
  varholder -s Counter scripts/ iCount
`)
}
