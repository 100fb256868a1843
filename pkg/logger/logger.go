package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

const serviceName = "oreoregeo"

// New создает JSON логгер. Некорректный уровень заменяется на info.
func New(logLevel string) *logrus.Logger {
	return NewWithOutput(logLevel, os.Stdout)
}

// NewWithOutput создает JSON логгер, пишущий в out
func NewWithOutput(logLevel string, out io.Writer) *logrus.Logger {
	log := logrus.New()

	log.SetFormatter(&logrus.JSONFormatter{
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyMsg: "message",
		},
	})
	log.SetOutput(out)
	log.AddHook(serviceHook{})

	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	return log
}

// serviceHook добавляет имя сервиса к каждой записи
type serviceHook struct{}

func (serviceHook) Levels() []logrus.Level { return logrus.AllLevels }

func (serviceHook) Fire(entry *logrus.Entry) error {
	if _, ok := entry.Data["service_name"]; !ok {
		entry.Data["service_name"] = serviceName
	}
	return nil
}
