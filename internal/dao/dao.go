// Package dao 实现数据访问层
package dao

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/haierkeys/note-share-service/internal/model"
	"github.com/haierkeys/note-share-service/pkg/fileurl"

	"github.com/glebarez/sqlite"
	"github.com/haierkeys/gormTracing"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

// DatabaseConfig 数据库连接配置
type DatabaseConfig struct {
	Type         string
	Path         string
	Name         string
	UserName     string
	Password     string
	Host         string
	TablePrefix  string
	Charset      string
	ParseTime    bool
	MaxIdleConns int
	MaxOpenConns int
}

// Dao 数据访问对象，持有数据库连接并按需执行迁移
type Dao struct {
	db     *gorm.DB
	logger *zap.Logger

	// 每个模型只迁移一次
	migrateOnce sync.Map // map[string]*sync.Once
}

// Option Dao 可选项
type Option func(*Dao)

// WithLogger 注入日志器
func WithLogger(l *zap.Logger) Option {
	return func(d *Dao) {
		d.logger = l
	}
}

// New 创建 Dao 实例
func New(db *gorm.DB, options ...Option) *Dao {
	d := &Dao{
		db:     db,
		logger: zap.NewNop(),
	}
	for _, opt := range options {
		opt(d)
	}
	return d
}

// DB 返回底层数据库连接
func (d *Dao) DB() *gorm.DB {
	return d.db
}

// use 返回数据库连接，并确保对应模型已迁移
func (d *Dao) use(modelKey string) *gorm.DB {
	v, _ := d.migrateOnce.LoadOrStore(modelKey, &sync.Once{})
	v.(*sync.Once).Do(func() {
		if err := model.AutoMigrate(d.db, modelKey); err != nil {
			d.logger.Error("auto migrate failed",
				zap.String("model", modelKey),
				zap.Error(err))
		}
	})
	return d.db
}

// NewDBEngineWithConfig 初始化 GORM 数据库连接
func NewDBEngineWithConfig(c DatabaseConfig, runMode string) (*gorm.DB, error) {

	dialector := newDialector(c)
	if dialector == nil {
		return nil, fmt.Errorf("unsupported database type: %s", c.Type)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		NamingStrategy: schema.NamingStrategy{
			TablePrefix:   c.TablePrefix, // 表名前缀
			SingularTable: true,          // 使用单数表名
		},
	})
	if err != nil {
		return nil, err
	}
	if runMode == "debug" {
		db.Config.Logger = logger.Default.LogMode(logger.Info)
	} else {
		db.Config.Logger = logger.Default.LogMode(logger.Silent)
	}

	// 获取通用数据库对象 sql.DB ，然后使用其提供的功能
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	// SetMaxIdleConns 用于设置连接池中空闲连接的最大数量。
	sqlDB.SetMaxIdleConns(c.MaxIdleConns)

	// SetMaxOpenConns 设置打开数据库连接的最大数量。
	sqlDB.SetMaxOpenConns(c.MaxOpenConns)

	// SetConnMaxLifetime 设置了连接可复用的最大时间。
	sqlDB.SetConnMaxLifetime(time.Minute * 10)

	_ = db.Use(&gormTracing.OpentracingPlugin{})

	return db, nil
}

func newDialector(c DatabaseConfig) gorm.Dialector {
	if c.Type == "mysql" {
		return mysql.Open(fmt.Sprintf("%s:%s@tcp(%s)/%s?charset=%s&parseTime=%t&loc=Local",
			c.UserName,
			c.Password,
			c.Host,
			c.Name,
			c.Charset,
			c.ParseTime,
		))
	} else if c.Type == "sqlite" {

		if !fileurl.IsExist(c.Path) {
			fileurl.CreatePath(c.Path, os.ModePerm)
		}
		return sqlite.Open(c.Path)
	}
	return nil
}
