package utils

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/mozillazg/go-pinyin"
	"github.com/sysu-ecnc-dev/shift-market/backend/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

var commonSurnames = []string{
	"王", "李", "张", "刘", "陈", "杨", "赵", "黄", "周", "吴",
	"徐", "孙", "胡", "朱", "高", "林", "何", "郭", "马", "罗",
}
var commonNameCharacters = []string{
	"伟", "强", "芳", "敏", "静", "丽", "刚", "杰", "娟", "勇",
	"艳", "涛", "明", "军", "磊", "洋", "霞", "飞", "玲", "超",
	"华", "平", "辉", "梅", "鑫", "龙", "鹏", "玉", "斌", "欣",
}

func GenerateRandomChineseName() string {
	surname := commonSurnames[rand.Intn(len(commonSurnames))]
	nameLength := rand.Intn(2) + 1
	name := ""

	for i := 0; i < nameLength; i++ {
		name += commonNameCharacters[rand.Intn(len(commonNameCharacters))]
	}
	return surname + name
}

var digits = "0123456789"

func GenerateUsernameFromChineseName(chineseName string) string {
	pinyinArray := pinyin.LazyConvert(chineseName, nil)
	username := ""

	for _, p := range pinyinArray {
		length := rand.Intn(len(p)) + 1
		username += p[:length]
	}

	digitsLength := rand.Intn(3) + 1
	for i := 0; i < digitsLength; i++ {
		username += string(digits[rand.Intn(len(digits))])
	}

	return username
}

// GenerateRandomUser 生成一个随机的场馆或兼职人员账号
func GenerateRandomUser(role domain.Role, password string, emailDomainName string) (*domain.User, error) {
	fullName := GenerateRandomChineseName()
	username := GenerateUsernameFromChineseName(fullName)
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     username,
		PasswordHash: string(passwordHash),
		FullName:     fullName,
		Email:        username + "@" + emailDomainName,
		Role:         role,
		IsActive:     true,
	}

	return user, nil
}

func GenerateRandomOTP() string {
	return fmt.Sprintf("%06d", rand.Intn(1000000))
}

var letters = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*")

func GenerateRandomPassword(length int) string {
	randomPassword := make([]rune, length)
	for i := range randomPassword {
		randomPassword[i] = letters[rand.Intn(len(letters))]
	}
	return string(randomPassword)
}

var seriesIDRunes = []rune("abcdefghijklmnopqrstuvwxyz0123456789")

// GenerateSeriesID 生成周期性班次序列的分组标识
func GenerateSeriesID() string {
	id := make([]rune, 16)
	for i := range id {
		id[i] = seriesIDRunes[rand.Intn(len(seriesIDRunes))]
	}
	return string(id)
}

var shiftTitles = []string{
	"晚市传菜", "午市服务员", "吧台调酒", "宴会摆台", "后厨帮工", "前台接待",
}
var shiftLocations = []string{
	"珠江新城店", "天河北店", "琶洲会展中心", "北京路步行街店", "白云机场店",
}

// GenerateRandomShift 生成一个随机的开放班次，开始时间在未来 1~14 天内
func GenerateRandomShift(employerID int64) *domain.Shift {
	start := time.Now().Add(time.Duration(rand.Intn(13*24)+24) * time.Hour).Truncate(time.Hour)
	durationHours := rand.Intn(6) + 3

	return &domain.Shift{
		EmployerID:              employerID,
		Title:                   shiftTitles[rand.Intn(len(shiftTitles))],
		Description:             "门店临时用工需求" + GenerateSeriesID()[:6],
		StartTime:               start,
		EndTime:                 start.Add(time.Duration(durationHours) * time.Hour),
		HourlyRate:              fmt.Sprintf("%d.50", rand.Intn(30)+25),
		Location:                shiftLocations[rand.Intn(len(shiftLocations))],
		Capacity:                int32(rand.Intn(3) + 1),
		Status:                  domain.ShiftStatusOpen,
		CancellationWindowHours: 24,
	}
}
