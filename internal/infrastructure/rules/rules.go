package rules

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Rules is the remotely supplied request signing ruleset
type Rules struct {
	AppToken         string   `json:"app_token"`
	StaticParam      string   `json:"static_param"`
	Format           string   `json:"format"`
	ChecksumIndexes  []int    `json:"checksum_indexes"`
	ChecksumConstant int      `json:"checksum_constant"`
	RemoveHeaders    []string `json:"remove_headers"`
}

// Validate checks that the ruleset can sign requests
func (r *Rules) Validate() error {
	if r.StaticParam == "" {
		return fmt.Errorf("static_param is empty")
	}
	if !strings.Contains(r.Format, "{}") || !strings.Contains(r.Format, "{:x}") {
		return fmt.Errorf("format %q has no hash and checksum placeholders", r.Format)
	}
	for _, idx := range r.ChecksumIndexes {
		if idx < 0 || idx >= sha1.Size*2 {
			return fmt.Errorf("checksum index %d out of range", idx)
		}
	}
	return nil
}

// Signature holds the headers that authorise one request
type Signature struct {
	Sign     string
	Time     string
	AppToken string
}

// Sign signs a request path for userID at now
func (r *Rules) Sign(path string, userID int64, now time.Time) Signature {
	ts := strconv.FormatInt(now.UnixMilli(), 10)

	user := "0"
	if userID > 0 {
		user = strconv.FormatInt(userID, 10)
	}

	sum := sha1.Sum([]byte(strings.Join([]string{r.StaticParam, ts, path, user}, "\n")))
	digest := hex.EncodeToString(sum[:])

	checksum := r.ChecksumConstant
	for _, idx := range r.ChecksumIndexes {
		checksum += int(digest[idx])
	}
	if checksum < 0 {
		checksum = -checksum
	}

	sign := strings.Replace(r.Format, "{}", digest, 1)
	sign = strings.Replace(sign, "{:x}", strconv.FormatInt(int64(checksum), 16), 1)

	return Signature{Sign: sign, Time: ts, AppToken: r.AppToken}
}
