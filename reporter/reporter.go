// Copyright © 2025 The guestfix authors

// Package reporter forwards fix-engine progress to the outside world: a
// human-readable change/audit rendering, and Kubernetes events when the
// engine runs inside a pod.
package reporter

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"os"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
)

const eventComponent = "GuestFix"

type ReporterOps interface {
	CreateKubernetesEvent(ctx context.Context, eventType, reason, message string) error
	UpdatePodEvents(ctx context.Context, ch <-chan string)
}

// Reporter posts stage events against its own pod object.
type Reporter struct {
	PodName      string
	PodNamespace string
	Pod          *corev1.Pod
	Clientset    kubernetes.Interface
}

// IsRunningInPod detects the in-cluster environment.
func IsRunningInPod() bool {
	if _, ok := os.LookupEnv("KUBERNETES_SERVICE_HOST"); !ok {
		return false
	}
	if _, err := os.Stat("/var/run/secrets/kubernetes.io/serviceaccount"); err != nil {
		return false
	}
	return true
}

// NewReporter wires up the in-cluster client and resolves the pod the
// engine runs in. Callers check IsRunningInPod first.
func NewReporter() (*Reporter, error) {
	r := &Reporter{}
	if err := r.getPodName(); err != nil {
		return nil, err
	}
	if err := r.getPodNamespace(); err != nil {
		return nil, err
	}
	config, err := rest.InClusterConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to get in-cluster config: %v", err)
	}
	clientset, err := kubernetes.NewForConfig(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create clientset: %v", err)
	}
	r.Clientset = clientset
	if err := r.getPod(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Reporter) getPodName() error {
	podName, ok := os.LookupEnv("POD_NAME")
	if !ok {
		return fmt.Errorf("failed to get pod name")
	}
	r.PodName = podName
	return nil
}

func (r *Reporter) getPodNamespace() error {
	podNamespace, err := os.ReadFile("/var/run/secrets/kubernetes.io/serviceaccount/namespace")
	if err != nil {
		return fmt.Errorf("failed to get pod namespace: %v", err)
	}
	r.PodNamespace = string(podNamespace)
	return nil
}

func (r *Reporter) getPod() error {
	pod, err := r.Clientset.CoreV1().Pods(r.PodNamespace).Get(context.TODO(), r.PodName, metav1.GetOptions{})
	if err != nil {
		return fmt.Errorf("failed to get pod: %v", err)
	}
	r.Pod = pod
	return nil
}

func generateRandomString(length int) string {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	b := make([]byte, length)
	for i := range b {
		b[i] = charset[rand.Intn(len(charset))]
	}
	return string(b)
}

// CreateKubernetesEvent records one engine stage against the pod.
func (r *Reporter) CreateKubernetesEvent(ctx context.Context, eventType, reason, message string) error {
	currtime := metav1.Now()
	event := &corev1.Event{
		ObjectMeta: metav1.ObjectMeta{
			Name:              fmt.Sprintf("%s.%s.%s", r.PodName, r.PodNamespace, generateRandomString(10)),
			Namespace:         r.PodNamespace,
			CreationTimestamp: currtime,
		},
		InvolvedObject: corev1.ObjectReference{
			Kind:      "Pod",
			Name:      r.PodName,
			Namespace: r.PodNamespace,
			UID:       types.UID(r.Pod.UID),
		},
		FirstTimestamp: currtime,
		LastTimestamp:  currtime,
		Reason:         reason,
		Message:        message,
		Source: corev1.EventSource{
			Component: eventComponent,
		},
		Type: eventType,
	}
	_, err := r.Clientset.CoreV1().Events(r.PodNamespace).Create(ctx, event, metav1.CreateOptions{})
	if err != nil {
		return fmt.Errorf("failed to create kubernetes event: %v", err)
	}
	return nil
}

// UpdatePodEvents drains the engine's message channel into pod events
// until the channel closes or the context ends.
func (r *Reporter) UpdatePodEvents(ctx context.Context, ch <-chan string) {
	go func() {
		for {
			select {
			case msg, ok := <-ch:
				if !ok {
					return
				}
				if err := r.CreateKubernetesEvent(ctx, corev1.EventTypeNormal, "GuestFix", msg); err != nil {
					log.Println(err.Error())
				}
			case <-ctx.Done():
				return
			}
		}
	}()
}
