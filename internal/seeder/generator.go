// Package seeder generates realistic alerts for development and demos.
package seeder

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/telhawk-systems/telhawk-assist/internal/models"
)

type threatProfile struct {
	category string
	names    []string
	ports    []int
	reasons  []string
	// severityWeights are the relative weights of low, medium, high, critical.
	severityWeights [4]int
}

var profiles = []threatProfile{
	{
		category:        "Brute Force",
		names:           []string{"ssh-bruteforce", "rdp-bruteforce", "admin-login-spray"},
		ports:           []int{22, 3389, 443},
		reasons:         []string{"Repeated failed logins from a single source", "Password spray across multiple accounts"},
		severityWeights: [4]int{1, 3, 4, 2},
	},
	{
		category:        "Malware",
		names:           []string{"ransomware-beacon", "trojan-dropper", "cryptominer-activity"},
		ports:           []int{443, 8080, 4444},
		reasons:         []string{"Known malware hash executed", "Beaconing to a known C2 domain"},
		severityWeights: [4]int{0, 1, 3, 4},
	},
	{
		category:        "SQL Injection",
		names:           []string{"web-sqli", "api-sqli-probe"},
		ports:           []int{80, 443, 8443},
		reasons:         []string{"UNION SELECT in query string", "Tautology in login parameter"},
		severityWeights: [4]int{1, 2, 4, 1},
	},
	{
		category:        "Reconnaissance",
		names:           []string{"port-scan", "service-enumeration", "dns-zone-walk"},
		ports:           []int{0, 53, 161},
		reasons:         []string{"Sequential SYN probes across many ports", "High volume of NXDOMAIN responses"},
		severityWeights: [4]int{5, 3, 1, 0},
	},
	{
		category:        "Exfiltration",
		names:           []string{"dns-tunnel", "large-upload", "cloud-storage-sync"},
		ports:           []int{53, 443, 21},
		reasons:         []string{"High-entropy DNS labels", "Unusual outbound transfer volume"},
		severityWeights: [4]int{0, 2, 3, 3},
	},
}

var riskRanges = map[string][2]float64{
	models.SeverityLow:      {5, 30},
	models.SeverityMedium:   {30, 60},
	models.SeverityHigh:     {60, 85},
	models.SeverityCritical: {85, 100},
}

// GenerateAlert creates the index-th of total alerts, spread backwards from
// now over timeSpread.
func GenerateAlert(index, total int, timeSpread time.Duration) models.Alert {
	p := profiles[rand.Intn(len(profiles))]
	severity := pickSeverity(p.severityWeights)
	r := riskRanges[severity]

	return models.Alert{
		Name:           fmt.Sprintf("%s-%02d", p.names[rand.Intn(len(p.names))], gofakeit.Number(1, 99)),
		IP:             gofakeit.IPv4Address(),
		Port:           p.ports[rand.Intn(len(p.ports))],
		Severity:       severity,
		ThreatCategory: p.category,
		RiskScore:      float64(int(gofakeit.Float64Range(r[0], r[1])*100)) / 100,
		Reason:         p.reasons[rand.Intn(len(p.reasons))],
		Timestamp:      alertTime(time.Now(), index, total, timeSpread),
	}
}

// Generate creates count alerts.
func Generate(count int, timeSpread time.Duration) []models.Alert {
	alerts := make([]models.Alert, 0, count)
	for i := 0; i < count; i++ {
		alerts = append(alerts, GenerateAlert(i, count, timeSpread))
	}
	return alerts
}

// alertTime spaces alerts evenly over timeSpread with ±40% jitter.
func alertTime(now time.Time, index, total int, timeSpread time.Duration) time.Time {
	if timeSpread <= 0 || total <= 0 {
		return now
	}

	baseInterval := float64(timeSpread) / float64(total)
	baseOffset := time.Duration(float64(index) * baseInterval)

	jitterRange := baseInterval * 0.4
	jitter := time.Duration((rand.Float64()*2.0 - 1.0) * jitterRange)

	totalOffset := baseOffset + jitter
	if totalOffset < 0 {
		totalOffset = 0
	}
	if totalOffset > timeSpread {
		totalOffset = timeSpread
	}

	// Alerts are placed going backwards from now
	return now.Add(-(timeSpread - totalOffset))
}

func pickSeverity(weights [4]int) string {
	sum := 0
	for _, w := range weights {
		sum += w
	}
	if sum == 0 {
		return models.SeverityLow
	}
	n := rand.Intn(sum)
	for i, w := range weights {
		if n < w {
			return models.Severities[i]
		}
		n -= w
	}
	return models.SeverityLow
}
