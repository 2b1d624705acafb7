// Package vocab provides the static skill vocabulary and keyword lists used
// to turn raw keyword frequency data into a trustworthy market-skill signal.
// A Vocabulary is built once at process start and shared read-only by all
// analyses.
package vocab

import (
	"strings"

	"github.com/ananya/resumatch/internal/types"
)

// techSkills is the whitelist of recognized technical skills. Only keywords in
// this set survive the market frequency filter, so noise terms from job
// descriptions never surface as "gaps".
var techSkills = []string{
	// Languages
	"python", "java", "javascript", "typescript", "c++", "c#", "c",
	"ruby", "php", "go", "golang", "rust", "swift", "kotlin", "scala",
	"r", "matlab", "perl", "dart", "haskell", "elixir", "erlang",
	"shell", "bash", "powershell",

	// Web
	"html", "css", "sass", "tailwind", "bootstrap",
	"react", "angular", "vue", "svelte", "nextjs", "next.js", "redux", "jquery",
	"node", "nodejs", "node.js", "express", "django", "flask", "fastapi",
	"spring", "rails", "laravel", "asp.net", ".net", "nestjs", "gin", "fiber",

	// Databases
	"sql", "mysql", "postgresql", "postgres", "mongodb", "redis",
	"elasticsearch", "oracle", "sqlite", "mariadb", "cassandra", "dynamodb",
	"neo4j", "firebase", "supabase", "bigquery", "snowflake", "clickhouse",

	// Cloud
	"aws", "azure", "gcp", "heroku", "digitalocean", "cloudflare", "vercel",
	"netlify", "ec2", "s3", "lambda", "sagemaker", "ecs", "eks",

	// DevOps
	"docker", "kubernetes", "k8s", "terraform", "ansible", "jenkins",
	"helm", "istio", "prometheus", "grafana", "datadog", "splunk",
	"nginx", "apache", "vault", "argocd", "cicd", "ci/cd", "devops", "sre",

	// Data / ML
	"machine learning", "deep learning", "nlp", "computer vision",
	"pandas", "numpy", "scipy", "scikit-learn", "sklearn", "tensorflow",
	"pytorch", "keras", "xgboost", "opencv", "spacy", "nltk",
	"matplotlib", "seaborn", "plotly", "jupyter", "spark", "pyspark",
	"hadoop", "airflow", "dbt", "databricks", "tableau", "powerbi",
	"mlops", "mlflow", "llm", "langchain", "openai", "genai",

	// Messaging / streaming
	"kafka", "rabbitmq", "celery", "memcached", "sqs", "kinesis", "nats", "grpc",

	// Tooling / practices
	"git", "github", "gitlab", "bitbucket", "linux", "unix", "ubuntu",
	"rest", "graphql", "websocket", "oauth", "jwt", "json", "protobuf",
	"swagger", "postman", "jest", "pytest", "junit", "selenium", "cypress",
	"playwright", "tdd", "agile", "scrum", "microservices", "serverless",
	"jira", "figma", "android", "ios", "flutter", "react native",
	"blockchain", "solidity", "security", "cybersecurity",
}

// stopwords are common English and job-posting boilerplate words filtered out
// before keyword counting.
var stopwords = []string{
	"and", "the", "for", "with", "you", "are", "was", "were", "been", "being",
	"have", "has", "had", "does", "did", "but", "than", "from", "about",
	"into", "over", "after", "will", "would", "can", "could", "should",
	"may", "might", "must", "they", "this", "that", "these", "those",
	"not", "only", "also", "very", "much", "many", "some", "any", "all",
	"more", "most", "other", "such", "even", "just", "like", "now", "then",
	"here", "there", "who", "which", "what", "when", "where", "why", "how",
	"description", "requirements", "experience", "work", "team", "company",
	"role", "job", "position", "looking", "seeking", "year", "years",
	"skills", "knowledge", "ability", "strong", "good", "proficient",
}

// courseIncludeKeywords mark a course title as relevant to tech/CS/data roles.
var courseIncludeKeywords = []string{
	"computer", "programming", "data", "algorithm", "machine learning",
	"deep learning", "artificial intelligence", "python", "java",
	"database", "sql", "software", "web", "internet", "network",
	"cryptography", "security", "cloud", "devops", "statistics",
	"probability", "neural", "nlp", "natural language", "pattern recognition",
	"image processing", "computer vision", "big data", "analytics",
	"optimization", "graph theory", "linear algebra", "discrete mathematics",
	"operating system", "compiler", "parallel", "distributed", "api",
	"microservices", "docker", "kubernetes", "container", "linux",
}

// courseExcludeKeywords mark a course title as clearly irrelevant; exclusion
// takes precedence over inclusion.
var courseExcludeKeywords = []string{
	"mechanical", "aerospace", "civil", "ocean", "marine", "chemical",
	"metallurgy", "mining", "textile", "architecture", "thermodynamic",
	"heat transfer", "power system", "electrical machine", "power plant",
	"transmission line", "transformer", "motor", "generator", "hydraulic",
	"pneumatic", "combustion", "propulsion", "aerodynamic", "structural",
	"concrete", "steel", "bridge", "highway", "geotechnical", "surveying",
	"vlsi", "analog circuit", "manufacturing", "welding", "casting",
	"forging", "machining",
}

// Vocabulary holds the canonical skill and keyword sets. Immutable after New.
type Vocabulary struct {
	skills    map[string]bool
	stopwords map[string]bool
	include   []string
	exclude   []string
}

// New builds the default Vocabulary.
func New() *Vocabulary {
	v := &Vocabulary{
		skills:    make(map[string]bool, len(techSkills)),
		stopwords: make(map[string]bool, len(stopwords)),
		include:   courseIncludeKeywords,
		exclude:   courseExcludeKeywords,
	}
	for _, s := range techSkills {
		v.skills[s] = true
	}
	for _, s := range stopwords {
		v.stopwords[s] = true
	}
	return v
}

// IsSkill reports whether the keyword is a recognized technical skill.
func (v *Vocabulary) IsSkill(keyword string) bool {
	return v.skills[strings.ToLower(strings.TrimSpace(keyword))]
}

// IsStopword reports whether the token is filtered out before counting.
func (v *Vocabulary) IsStopword(token string) bool {
	return v.stopwords[token]
}

// Skills returns the set of recognized skills for membership testing.
func (v *Vocabulary) Skills() map[string]bool {
	return v.skills
}

// IsRelevantCourse reports whether a course title belongs in the filtered
// catalog. A title matching any exclusion keyword is dropped regardless of
// inclusion matches.
func (v *Vocabulary) IsRelevantCourse(title string) bool {
	lower := strings.ToLower(title)
	for _, kw := range v.exclude {
		if strings.Contains(lower, kw) {
			return false
		}
	}
	for _, kw := range v.include {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// FilterSkillRecords keeps only records whose keyword is in the skill
// whitelist. Input order is preserved.
func (v *Vocabulary) FilterSkillRecords(records []types.SkillRecord) []types.SkillRecord {
	filtered := make([]types.SkillRecord, 0, len(records))
	for _, rec := range records {
		if v.IsSkill(rec.Keyword) {
			filtered = append(filtered, rec)
		}
	}
	return filtered
}
