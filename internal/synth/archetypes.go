package synth

import "fmt"

// ThreatType names a seeded attack archetype.
type ThreatType string

const (
	ThreatFailedLogin       ThreatType = "failed_login"
	ThreatRootConsole       ThreatType = "root_console"
	ThreatTrailDisruption   ThreatType = "cloudtrail_disruption"
	ThreatUnauthorized      ThreatType = "unauthorized"
	ThreatRecon             ThreatType = "whoami"
	ThreatSecretsAccess     ThreatType = "secrets"
	ThreatLargeInstance     ThreatType = "large_instance"
	ThreatS3BruteForce      ThreatType = "s3_bruteforce"
	ThreatSuspiciousAgent   ThreatType = "suspicious_agent"
	ThreatAccessKeyCreation ThreatType = "access_key"
)

// ThreatTypes returns every archetype in generation order.
func ThreatTypes() []ThreatType {
	return []ThreatType{
		ThreatFailedLogin,
		ThreatRootConsole,
		ThreatTrailDisruption,
		ThreatUnauthorized,
		ThreatRecon,
		ThreatSecretsAccess,
		ThreatLargeInstance,
		ThreatS3BruteForce,
		ThreatSuspiciousAgent,
		ThreatAccessKeyCreation,
	}
}

// Threat events all land in one compromised account so hunts can pivot on it.
const threatAccount = "123456789"

var (
	eventNames = []string{
		"ConsoleLogin", "GetCallerIdentity", "RunInstances", "StopLogging",
		"DeleteTrail", "GetSecretValue", "CreateAccessKey", "GetBucketAcl",
		"DescribeInstances", "ListBuckets", "GetUser", "PutObject", "GetObject",
	}

	// normalEventNames excludes the trail-tampering calls so baseline traffic
	// never triggers the disruption hypothesis.
	normalEventNames = []string{
		"ConsoleLogin", "GetCallerIdentity", "RunInstances", "GetSecretValue",
		"CreateAccessKey", "GetBucketAcl", "DescribeInstances", "ListBuckets",
		"GetUser", "PutObject", "GetObject",
	}

	eventSources = []string{
		"signin.amazonaws.com", "sts.amazonaws.com", "ec2.amazonaws.com",
		"cloudtrail.amazonaws.com", "secretsmanager.amazonaws.com",
		"iam.amazonaws.com", "s3.amazonaws.com",
	}

	regions = []string{"us-east-1", "us-west-2", "eu-west-1", "ap-southeast-1"}

	normalAgents = []string{
		"aws-cli/2.0.0 Python/3.8.0 Linux/5.4.0",
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64)",
		"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7)",
		"aws-sdk-go/1.40.0",
		"Boto3/1.18.0 Python/3.9.0",
	}

	suspiciousAgents = []string{"kali-linux/2021.1", "ParrotOS/4.11", "powershell/7.1"}

	usernames = []string{"admin", "developer", "analyst", "service-account", "root"}

	normalInstanceTypes = []string{"t2.micro", "t2.small", "m5.large", "c5.xlarge"}

	miningInstanceTypes = []string{"p3.10xlarge", "p3.16xlarge", "p4d.24xlarge"}

	loginFailureMessages = []string{
		"No username found in supplied account",
		"Failed authentication",
		"Invalid credentials",
	}
)

func (g *Generator) normalEvent() Event {
	name := g.pick(normalEventNames)
	username := g.pick(usernames)
	account := g.accountID()

	identityType := "IAMUser"
	if username == "root" {
		identityType = "Root"
	}

	e := Event{
		EventTime:        g.timestamp(),
		EventName:        name,
		EventSource:      g.pick(eventSources),
		SourceIP:         g.ip(),
		UserAgent:        g.pick(normalAgents),
		Region:           g.pick(regions),
		IdentityType:     identityType,
		UserName:         username,
		ARN:              fmt.Sprintf("arn:aws:iam::%s:user/%s", account, username),
		AccountID:        account,
		EventID:          g.eventID(),
		ReadOnly:         g.pick([]string{"true", "false"}),
		RecipientAccount: account,
	}
	if name == "RunInstances" {
		e.InstanceType = g.pick(normalInstanceTypes)
	}
	return e
}

// threatBase fills the fields every archetype shares; callers override the
// signature fields that make the event match its hypothesis.
func (g *Generator) threatBase(name, source, username, arnSuffix, readOnly string) Event {
	return Event{
		EventTime:        g.timestamp(),
		EventName:        name,
		EventSource:      source,
		SourceIP:         g.ip(),
		UserAgent:        "aws-cli/2.0",
		Region:           "us-east-1",
		IdentityType:     "IAMUser",
		UserName:         username,
		ARN:              "arn:aws:iam::" + threatAccount + ":" + arnSuffix,
		AccountID:        threatAccount,
		EventID:          g.eventID(),
		ReadOnly:         readOnly,
		RecipientAccount: threatAccount,
	}
}

func (g *Generator) threatEvent(tt ThreatType) Event {
	switch tt {
	case ThreatFailedLogin:
		e := g.threatBase("ConsoleLogin", "signin.amazonaws.com", "HIDDEN_DUE_TO_SECURITY_REASONS", "user/test", "false")
		e.UserAgent = "Mozilla/5.0"
		e.ErrorCode = "Failed"
		e.ErrorMessage = g.pick(loginFailureMessages)
		return e

	case ThreatRootConsole:
		e := g.threatBase("ConsoleLogin", "signin.amazonaws.com", "root", "root", "false")
		e.UserAgent = "Mozilla/5.0"
		e.IdentityType = "Root"
		return e

	case ThreatTrailDisruption:
		name := g.pick([]string{"StopLogging", "DeleteTrail"})
		return g.threatBase(name, "cloudtrail.amazonaws.com", "attacker", "user/attacker", "false")

	case ThreatUnauthorized:
		name := g.pick([]string{"RunInstances", "CreateUser", "PutObject"})
		e := g.threatBase(name, g.pick(eventSources), "unauthorized-user", "user/unauthorized", "false")
		e.ErrorCode = g.pick([]string{"AccessDenied", "UnauthorizedOperation"})
		e.ErrorMessage = "User is not authorized to perform this action"
		return e

	case ThreatRecon:
		return g.threatBase("GetCallerIdentity", "sts.amazonaws.com", "recon-user", "user/recon", "true")

	case ThreatSecretsAccess:
		return g.threatBase("GetSecretValue", "secretsmanager.amazonaws.com", "secrets-user", "user/secrets", "true")

	case ThreatLargeInstance:
		e := g.threatBase("RunInstances", "ec2.amazonaws.com", "miner", "user/miner", "false")
		e.InstanceType = g.pick(miningInstanceTypes)
		return e

	case ThreatS3BruteForce:
		e := g.threatBase("GetBucketAcl", "s3.amazonaws.com", "scanner", "user/scanner", "true")
		e.ErrorCode = g.pick([]string{"", "AccessDenied"})
		e.BucketName = fmt.Sprintf("bucket-%d", 1000+g.rng.Intn(9000))
		return e

	case ThreatSuspiciousAgent:
		e := g.threatBase(g.pick(eventNames), g.pick(eventSources), "attacker", "user/attacker", "false")
		e.UserAgent = g.pick(suspiciousAgents)
		return e

	case ThreatAccessKeyCreation:
		e := g.threatBase("CreateAccessKey", "iam.amazonaws.com", "developer", "user/developer", "false")
		e.AccessKeyID = fmt.Sprintf("AKIA%d", 1000000000000000+g.rng.Int63n(9000000000000000))
		return e
	}

	return g.normalEvent()
}
