package cli

import (
	"github.com/spf13/pflag"

	"backupwatch/internal/report"
)

// notifyTypeValue makes report.NotifyType usable as a command flag with
// parse-time validation.
type notifyTypeValue report.NotifyType

var _ pflag.Value = (*notifyTypeValue)(nil)

func newNotifyTypeValue(def report.NotifyType) *notifyTypeValue {
	v := notifyTypeValue(def)
	return &v
}

func (v *notifyTypeValue) String() string {
	return string(*v)
}

func (v *notifyTypeValue) Set(s string) error {
	parsed, err := report.ParseNotifyType(s)
	if err != nil {
		return err
	}
	*v = notifyTypeValue(parsed)
	return nil
}

func (v *notifyTypeValue) Type() string {
	return "off|alarm|always|alarm_on_last_backup"
}

func (v *notifyTypeValue) NotifyType() report.NotifyType {
	return report.NotifyType(*v)
}
