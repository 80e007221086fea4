package database

import (
	"context"
	"database/sql"
	"strconv"
	"strings"

	_ "github.com/lib/pq"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// 対応するドライバ
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// SQLClient database/sql の接続。Driver によってプレースホルダとマイグレーションを切り替える
type SQLClient struct {
	DB     *sql.DB
	Driver string
}

// NewSQLClient 新しいSQLクライアントを作成し、接続を確認する
func NewSQLClient(ctx context.Context, driver, dsn string) (*SQLClient, error) {
	if dsn == "" {
		return nil, eris.Errorf("database: %s のDSNが設定されていません", driver)
	}

	var db *sql.DB
	var err error
	switch driver {
	case DriverPostgres:
		db, err = sql.Open("postgres", dsn)
		if err != nil {
			return nil, eris.Wrap(err, "database: PostgreSQL接続の初期化に失敗")
		}
	case DriverSQLite:
		db, err = sql.Open("sqlite", dsn)
		if err != nil {
			return nil, eris.Wrap(err, "database: SQLite接続の初期化に失敗")
		}
		// PRAGMA は接続ごとに効くので接続を1本に固定する
		db.SetMaxOpenConns(1)
		for _, pragma := range []string{
			"PRAGMA foreign_keys=ON",
			"PRAGMA busy_timeout=5000",
		} {
			if _, err := db.ExecContext(ctx, pragma); err != nil {
				db.Close()
				return nil, eris.Wrapf(err, "database: exec %s", pragma)
			}
		}
	default:
		return nil, eris.Errorf("database: 未対応のドライバです: %q", driver)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, eris.Wrapf(err, "database: %s への接続に失敗", driver)
	}

	zap.L().Info("✅ データベースに接続しました", zap.String("driver", driver))
	return &SQLClient{DB: db, Driver: driver}, nil
}

// Rebind `?` プレースホルダを PostgreSQL の `$n` に置き換える
func (c *SQLClient) Rebind(query string) string {
	if c.Driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

// Migrate テーブルを作成する（存在する場合は何もしない）
func (c *SQLClient) Migrate(ctx context.Context) error {
	migration := sqliteMigration
	if c.Driver == DriverPostgres {
		migration = postgresMigration
	}
	_, err := c.DB.ExecContext(ctx, migration)
	return eris.Wrapf(err, "database: %s migrate", c.Driver)
}

// Close データベース接続を閉じる
func (c *SQLClient) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}

// HealthCheck データベース接続のヘルスチェック
func (c *SQLClient) HealthCheck(ctx context.Context) error {
	if c.DB == nil {
		return eris.New("database: クライアントが初期化されていません")
	}
	return eris.Wrap(c.DB.PingContext(ctx), "database: ping")
}
