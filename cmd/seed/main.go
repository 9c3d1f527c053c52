package main

import (
	"context"
	"database/sql"
	"flag"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/sysu-ecnc-dev/shift-market/backend/internal/config"
	"github.com/sysu-ecnc-dev/shift-market/backend/internal/domain"
	"github.com/sysu-ecnc-dev/shift-market/backend/internal/repository"
	"github.com/sysu-ecnc-dev/shift-market/backend/internal/utils"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	var op int
	var n int

	flag.IntVar(&op, "op", 0, "要执行的操作 (1: 插入随机场馆, 2: 插入随机兼职人员, 3: 插入随机开放班次, 4: 插入随机申请)")
	flag.IntVar(&n, "n", 5, "要插入的记录数量")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	// 读取配置文件
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法读取配置文件", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 创建数据库连接池
	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("无法创建数据库连接池", "error", err)
		return
	}
	defer dbpool.Close()

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	// sql.Open 只是创建数据库连接池对象，并不会立即连接到数据库，因此需要显式地 ping 一下
	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("无法连接到数据库", "error", err)
		return
	}

	// 创建 repository
	repo := repository.NewRepository(cfg, dbpool)

	if n <= 0 {
		slog.Error("请输入合法的记录数量")
		return
	}

	// 执行操作
	switch op {
	case 0:
		slog.Error("未指定操作")
	case 1:
		seedUsers(repo, cfg, domain.RoleVenue, n)
	case 2:
		seedUsers(repo, cfg, domain.RoleProfessional, n)
	case 3:
		venues, err := repo.GetUsersByRole(domain.RoleVenue)
		if err != nil {
			slog.Error("无法获取场馆列表", slog.String("error", err.Error()))
			return
		}
		if len(venues) == 0 {
			slog.Error("数据库中没有场馆账号，请先执行 op=1")
			return
		}

		cnt := n
		for i := 0; i < n; i++ {
			venue := venues[rand.Intn(len(venues))]
			shift := utils.GenerateRandomShift(venue.ID)
			if err := repo.CreateShift(shift); err != nil {
				slog.Error("无法插入班次", slog.String("error", err.Error()))
				continue
			}
			cnt--
		}

		slog.Info("插入班次成功", slog.Int("count", n-cnt))
	case 4:
		professionals, err := repo.GetUsersByRole(domain.RoleProfessional)
		if err != nil {
			slog.Error("无法获取兼职人员列表", slog.String("error", err.Error()))
			return
		}
		if len(professionals) == 0 {
			slog.Error("数据库中没有兼职人员账号，请先执行 op=2")
			return
		}

		shifts, err := repo.GetShiftsByStatus(domain.ShiftStatusOpen)
		if err != nil {
			slog.Error("无法获取开放班次列表", slog.String("error", err.Error()))
			return
		}
		if len(shifts) == 0 {
			slog.Error("数据库中没有开放班次，请先执行 op=3")
			return
		}

		cnt := n
		for i := 0; i < n; i++ {
			professional := professionals[rand.Intn(len(professionals))]
			shift := shifts[rand.Intn(len(shifts))]
			if _, err := repo.ApplyToShift(shift, professional.ID, "希望获得这份工作"); err != nil {
				// 随机组合可能撞上重复申请，跳过即可
				slog.Warn("无法插入申请", slog.String("error", err.Error()))
				continue
			}
			cnt--
		}

		slog.Info("插入申请成功", slog.Int("count", n-cnt))
	default:
		slog.Error("不支持的操作", slog.Int("op", op))
	}
}

func seedUsers(repo *repository.Repository, cfg *config.Config, role domain.Role, n int) {
	cnt := n
	for i := 0; i < n; i++ {
		user, err := utils.GenerateRandomUser(role, cfg.Seed.User.Password, cfg.Email.UserDomain)
		if err != nil {
			slog.Error("无法生成随机用户", slog.String("error", err.Error()))
			continue
		}

		if err := repo.CreateUser(user); err != nil {
			slog.Error("无法插入用户", slog.String("error", err.Error()))
			continue
		}

		cnt--
	}

	slog.Info("插入用户成功", slog.Int("count", n-cnt), slog.String("role", string(role)))
}
