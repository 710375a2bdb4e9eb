package storage

import (
	"fmt"

	"github.com/LENAX/task-graph/pkg/storage/mysql"
	"github.com/LENAX/task-graph/pkg/storage/postgres"
	"github.com/LENAX/task-graph/pkg/storage/sqlite"
)

// NewSnapshotRepository 按数据库类型创建快照仓库（对外导出）
// dbType: 数据库类型（sqlite/mysql/postgres）
// dsn: 数据库连接字符串
func NewSnapshotRepository(dbType, dsn string) (SnapshotRepository, error) {
	switch dbType {
	case "sqlite":
		return sqlite.NewSnapshotRepoFromDSN(dsn)
	case "mysql":
		return mysql.NewSnapshotRepoFromDSN(dsn)
	case "postgres", "postgresql":
		return postgres.NewSnapshotRepoFromDSN(dsn)
	default:
		return nil, fmt.Errorf("unsupported database type: %s", dbType)
	}
}
