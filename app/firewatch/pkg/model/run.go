package model

import (
	"sync"
	"time"
)

// Phase 运行所处的阶段
type Phase string

const (
	PhaseIdle        Phase = "idle"
	PhaseFetching    Phase = "fetching"
	PhaseFetchFailed Phase = "fetch_failed"
	PhaseEmpty       Phase = "empty"
	PhaseFetched     Phase = "fetched"
	PhaseAnalyzing   Phase = "analyzing"
)

// PhaseOf 分析结束后的阶段与结果分类同名
func PhaseOf(o Outcome) Phase {
	return Phase(o)
}

// Run 单个会话的运行上下文。
// 新一轮检索会同时清空 ResultSet 与 AnalysisResult。
type Run struct {
	mu sync.RWMutex

	busy        bool
	request     SearchRequest
	phase       Phase
	results     ResultSet
	analysis    *AnalysisResult
	fetchErr    string
	retryActive bool
	retryAt     time.Time
	updatedAt   time.Time
}

// NewRun 创建空闲的运行上下文
func NewRun() *Run {
	return &Run{phase: PhaseIdle, updatedAt: time.Now()}
}

// Acquire 占用运行上下文，已被占用时返回 false
func (r *Run) Acquire() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.busy {
		return false
	}
	r.busy = true
	return true
}

// Release 释放运行上下文
func (r *Run) Release() {
	r.mu.Lock()
	r.busy = false
	r.mu.Unlock()
}

// Begin 开始新一轮检索
func (r *Run) Begin(req SearchRequest) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.request = req
	r.results = nil
	r.analysis = nil
	r.fetchErr = ""
	r.retryActive = false
	r.retryAt = time.Time{}
	r.touch(PhaseFetching)
}

// FetchFailed 记录检索失败
func (r *Run) FetchFailed(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err != nil {
		r.fetchErr = err.Error()
	}
	r.touch(PhaseFetchFailed)
}

// SetResults 保存检索结果，空结果进入 Empty 阶段
func (r *Run) SetResults(rs ResultSet) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = rs.Clone()
	if len(rs) == 0 {
		r.touch(PhaseEmpty)
		return
	}
	r.touch(PhaseFetched)
}

// StartAnalysis 进入分析阶段并丢弃上一次的分析结果
func (r *Run) StartAnalysis() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.analysis = nil
	r.retryActive = false
	r.retryAt = time.Time{}
	r.touch(PhaseAnalyzing)
}

// ScheduleRetry 标记配额超限后的自动重试
func (r *Run) ScheduleRetry(at time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.retryActive = true
	r.retryAt = at
	r.touch(PhaseOf(OutcomeQuotaExceeded))
}

// ResumeAnalysis 等待结束，重新进入分析阶段
func (r *Run) ResumeAnalysis() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.retryActive = false
	r.retryAt = time.Time{}
	r.touch(PhaseAnalyzing)
}

// SetAnalysis 保存分析结果
func (r *Run) SetAnalysis(res AnalysisResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.analysis = &res
	r.retryActive = false
	r.retryAt = time.Time{}
	r.touch(PhaseOf(res.Outcome))
}

// Results 返回当前结果集的副本
func (r *Run) Results() ResultSet {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.results.Clone()
}

// Request 返回当前检索请求
func (r *Run) Request() SearchRequest {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.request
}

func (r *Run) touch(p Phase) {
	r.phase = p
	r.updatedAt = time.Now()
}

// Snapshot 运行上下文的只读快照
type Snapshot struct {
	Keyword     string          `json:"keyword,omitempty"`
	Window      TimeWindow      `json:"time_window,omitempty"`
	Sources     []Source        `json:"sources,omitempty"`
	Phase       Phase           `json:"phase"`
	Results     ResultSet       `json:"results"`
	Analysis    *AnalysisResult `json:"analysis,omitempty"`
	FetchError  string          `json:"fetch_error,omitempty"`
	RetryActive bool            `json:"retry_active"`
	RetryAt     *time.Time      `json:"retry_at,omitempty"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Snapshot 生成快照
func (r *Run) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s := Snapshot{
		Phase:       r.phase,
		Results:     r.results.Clone(),
		FetchError:  r.fetchErr,
		RetryActive: r.retryActive,
		UpdatedAt:   r.updatedAt,
	}
	if s.Results == nil {
		s.Results = ResultSet{}
	}
	if !r.request.IsZero() {
		s.Keyword = r.request.Keyword()
		s.Window = r.request.Window()
		s.Sources = r.request.Sources()
	}
	if r.analysis != nil {
		a := *r.analysis
		s.Analysis = &a
	}
	if r.retryActive {
		at := r.retryAt
		s.RetryAt = &at
	}
	return s
}
