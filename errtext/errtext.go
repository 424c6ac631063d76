// Package errtext localizes the future package's error taxonomy into
// human-readable text. It adapts the teacher's generic i18n.TextTemplateI18n
// catalogue into a single lookup keyed by bizerrors.Code instead of a
// caller-chosen string key, since every error in the future package's
// taxonomy already carries one.
package errtext

import (
	"errors"

	"golang.org/x/text/language"

	"github.com/saltfishpr/quokka/bizerrors"
	"github.com/saltfishpr/quokka/future"
	"github.com/saltfishpr/quokka/i18n"
)

var catalogue = map[int32]*i18n.TextTemplateI18n{
	future.CodeAlreadyRetrieved: newEntry(
		language.English, "the future for this promise was already retrieved",
		language.Chinese, "该 promise 对应的 future 已经被获取过",
	),
	future.CodeWrongStateTimeout: newEntry(
		language.English, "the future already timed out",
		language.Chinese, "该 future 已经超时",
	),
	future.CodeWaitTimeout: newEntry(
		language.English, "timed out waiting for the future to become ready",
		language.Chinese, "等待 future 就绪超时",
	),
	future.CodeUninitializedOutcome: newEntry(
		language.English, "the outcome was never assigned a value or an exception",
		language.Chinese, "该 outcome 尚未被赋予值或异常",
	),
	future.CodeNotExceptionState: newEntry(
		language.English, "the outcome holds a value, not an exception",
		language.Chinese, "该 outcome 持有的是值而非异常",
	),
	future.CodePanic: newEntry(
		language.English, "a panic was recovered from an asynchronous callable: {{.}}",
		language.Chinese, "异步调用中捕获到 panic：{{.}}",
	),
	future.CodeShutdownAborted: newEntry(
		language.English, "the task was abandoned because the pool shut down before it ran",
		language.Chinese, "任务在执行前因线程池关闭而被放弃",
	),
}

func newEntry(en language.Tag, enTpl string, zh language.Tag, zhTpl string) *i18n.TextTemplateI18n {
	return i18n.NewTextTemplateI18n().MustAdd(en, enTpl).MustAdd(zh, zhTpl)
}

// Describe renders a localized message for err, using the bizerrors.Code
// carried by err (or by whatever it wraps) to pick the template. If err
// carries no known code, it falls back to err.Error() untranslated.
func Describe(err error, lang language.Tag, opts ...i18n.Option) string {
	if err == nil {
		return ""
	}

	var bizErr *bizerrors.Error
	if !errors.As(err, &bizErr) {
		return err.Error()
	}

	entry, ok := catalogue[bizErr.GetCode()]
	if !ok {
		return err.Error()
	}

	arg := any(nil)
	if bizErr.GetCode() == future.CodePanic {
		arg = err.Error()
	}
	allOpts := append([]i18n.Option{i18n.WithArg(arg)}, opts...)

	text, lerr := entry.Get(lang, allOpts...)
	if lerr != nil {
		return err.Error()
	}
	return text
}
