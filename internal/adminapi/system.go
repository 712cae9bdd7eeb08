package adminapi

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/talkincode/stockledger/internal/domain"
	"github.com/talkincode/stockledger/internal/webserver"
	"gorm.io/gorm"
)

// SystemInfo describes the application database.
type SystemInfo struct {
	DatabaseType    string           `json:"database_type"`
	DatabaseVersion string           `json:"database_version"`
	ServerTime      string           `json:"server_time"`
	Timezone        string           `json:"timezone"`
	Tables          map[string]int64 `json:"tables"`
	OpenDrafts      int              `json:"open_drafts"`
}

func registerSystemRoutes() {
	webserver.ApiGET("/system/info", systemInfo)
	webserver.ApiGET("/system/backup", systemBackup)
}

// tableNames resolves the table of every migrated model.
func tableNames(db *gorm.DB) ([]string, error) {
	names := make([]string, 0, len(domain.Tables))
	for _, model := range domain.Tables {
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(model); err != nil {
			return nil, err
		}
		names = append(names, stmt.Schema.Table)
	}
	return names, nil
}

// systemInfo describes the database and open drafts
// @Summary get system information
// @Tags System
// @Success 200 {object} Response{data=SystemInfo}
// @Router /api/v1/system/info [get]
func systemInfo(c echo.Context) error {
	appCtx := GetAppContext(c)
	db := GetDB(c)
	info := SystemInfo{
		DatabaseType: db.Dialector.Name(),
		ServerTime:   time.Now().In(appCtx.Location()).Format("2006-01-02 15:04:05"),
		Timezone:     appCtx.Location().String(),
		Tables:       map[string]int64{},
		OpenDrafts:   appCtx.Drafts().Len(),
	}
	switch info.DatabaseType {
	case "postgres":
		db.Raw("SELECT version()").Scan(&info.DatabaseVersion)
	case "sqlite":
		var version string
		db.Raw("SELECT sqlite_version()").Scan(&version)
		info.DatabaseVersion = "SQLite " + version
	}

	names, err := tableNames(db)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to resolve tables", err.Error())
	}
	for _, name := range names {
		var n int64
		if err := db.Table(name).Count(&n).Error; err != nil {
			return fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to count rows", err.Error())
		}
		info.Tables[name] = n
	}
	return ok(c, info)
}

// systemBackup dumps the rows of every application table as INSERT
// statements. The schema itself is recreated by the migrate command.
//
// @Summary download a SQL backup
// @Tags System
// @Success 200 {file} file
// @Router /api/v1/system/backup [get]
func systemBackup(c echo.Context) error {
	db := GetDB(c)
	names, err := tableNames(db)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to resolve tables", err.Error())
	}

	now := time.Now()
	var dump strings.Builder
	dump.WriteString("-- StockLedger data backup\n")
	fmt.Fprintf(&dump, "-- Generated at: %s\n", now.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&dump, "-- Database type: %s\n\n", db.Dialector.Name())

	for _, name := range names {
		var rows []map[string]interface{}
		if err := db.Table(name).Find(&rows).Error; err != nil {
			return fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to read "+name, err.Error())
		}
		fmt.Fprintf(&dump, "-- Table: %s (%d rows)\n", name, len(rows))
		for _, row := range rows {
			dump.WriteString(insertStatement(name, row))
		}
		dump.WriteString("\n")
	}

	writeOprLog(c, "backup", fmt.Sprintf("%d tables", len(names)))
	filename := fmt.Sprintf("stockledger_backup_%s.sql", now.Format("20060102_150405"))
	c.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename="+filename)
	return c.Blob(http.StatusOK, "application/sql", []byte(dump.String()))
}

func insertStatement(table string, row map[string]interface{}) string {
	cols := make([]string, 0, len(row))
	for col := range row {
		cols = append(cols, col)
	}
	sort.Strings(cols)
	quoted := make([]string, len(cols))
	values := make([]string, len(cols))
	for i, col := range cols {
		quoted[i] = `"` + col + `"`
		values[i] = sqlLiteral(row[col])
	}
	return fmt.Sprintf("INSERT INTO \"%s\" (%s) VALUES (%s);\n",
		table, strings.Join(quoted, ", "), strings.Join(values, ", "))
}

func sqlLiteral(val interface{}) string {
	switch v := val.(type) {
	case nil:
		return "NULL"
	case string:
		return "'" + strings.ReplaceAll(v, "'", "''") + "'"
	case []byte:
		return "'" + strings.ReplaceAll(string(v), "'", "''") + "'"
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", v)
	case float32, float64:
		return fmt.Sprintf("%v", v)
	case bool:
		if v {
			return "TRUE"
		}
		return "FALSE"
	case time.Time:
		return "'" + v.UTC().Format("2006-01-02 15:04:05.999999-07:00") + "'"
	}
	return "'" + strings.ReplaceAll(fmt.Sprint(val), "'", "''") + "'"
}
