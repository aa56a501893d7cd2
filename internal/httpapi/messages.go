package httpapi

import (
	"net/http"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/PreethamGowda-B/SmartERP-FrontEnd-sub000/internal/attendance/service"
)

// Codes the HTTP layer adds on top of service.ErrorCode.
const (
	codeBadJSON         = "bad_json"
	codeBadRequest      = "bad_request"
	codeUnauthenticated = "unauthenticated"
	codeForbidden       = "forbidden"
	codeInternal        = "internal_error"
)

var supportedLangs = []language.Tag{
	language.AmericanEnglish, // first is the fallback
	language.Indonesian,
}

var langMatcher = language.NewMatcher(supportedLangs)

var catalog = map[language.Tag]map[string]string{
	language.AmericanEnglish: {
		service.CodeInvalidEmployeeID:  "An employee ID is required.",
		service.CodeAlreadyClockedIn:   "You have already clocked in today.",
		service.CodeAlreadyClockedOut:  "You have already clocked out today.",
		service.CodeNoOpenShift:        "You have not clocked in today.",
		service.CodeTooEarly:           "Clock-in opens at %s.",
		service.CodeWindowClosed:       "Clock-in closed at %s. Today is recorded as absent.",
		service.CodeInvalidRange:       "The requested date range is invalid.",
		service.CodeStorageUnavailable: "Attendance is temporarily unavailable. Please try again.",
		codeBadJSON:                    "The request body is not valid JSON.",
		codeBadRequest:                 "The request is invalid.",
		codeUnauthenticated:            "Sign in to continue.",
		codeForbidden:                  "Only owners can do this.",
		codeInternal:                   "Unexpected server error.",
	},
	language.Indonesian: {
		service.CodeInvalidEmployeeID:  "ID karyawan wajib diisi.",
		service.CodeAlreadyClockedIn:   "Anda sudah absen masuk hari ini.",
		service.CodeAlreadyClockedOut:  "Anda sudah absen pulang hari ini.",
		service.CodeNoOpenShift:        "Anda belum absen masuk hari ini.",
		service.CodeTooEarly:           "Absen masuk dibuka pukul %s.",
		service.CodeWindowClosed:       "Absen masuk ditutup pukul %s. Hari ini tercatat tidak hadir.",
		service.CodeInvalidRange:       "Rentang tanggal tidak valid.",
		service.CodeStorageUnavailable: "Layanan absensi sedang tidak tersedia. Silakan coba lagi.",
		codeBadJSON:                    "Isi permintaan bukan JSON yang valid.",
		codeBadRequest:                 "Permintaan tidak valid.",
		codeUnauthenticated:            "Silakan masuk terlebih dahulu.",
		codeForbidden:                  "Hanya pemilik yang dapat melakukan ini.",
		codeInternal:                   "Terjadi kesalahan pada server.",
	},
}

func init() {
	for tag, msgs := range catalog {
		for key, msg := range msgs {
			if err := message.SetString(tag, key, msg); err != nil {
				panic(err)
			}
		}
	}
}

// printerFor picks the best supported language from ?lang= or
// Accept-Language.
func printerFor(r *http.Request) *message.Printer {
	var prefs []language.Tag
	if lang := strings.TrimSpace(r.URL.Query().Get("lang")); lang != "" {
		if tag, err := language.Parse(lang); err == nil {
			prefs = append(prefs, tag)
		}
	}
	if accept := strings.TrimSpace(r.Header.Get("Accept-Language")); accept != "" {
		if tags, _, err := language.ParseAcceptLanguage(accept); err == nil {
			prefs = append(prefs, tags...)
		}
	}
	_, idx, _ := langMatcher.Match(prefs...)
	return message.NewPrinter(supportedLangs[idx])
}

// localize renders the message for code. args fill %s placeholders.
func localize(r *http.Request, code string, args ...any) string {
	return printerFor(r).Sprintf(code, args...)
}
